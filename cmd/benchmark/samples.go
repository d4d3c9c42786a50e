package main

// Sample represents a benchmark code sample.
type Sample struct {
	Name string
	Code string
}

// Samples are snippets of increasing size used for latency measurement.
var Samples = []Sample{
	{
		Name: "tiny",
		Code: `print('hi')`,
	},
	{
		Name: "short",
		Code: `def avg(l):
    s = 0
    for i in range(len(l)):
        s = s + l[i]
    return s / len(l)`,
	},
	{
		Name: "medium",
		Code: `import requests

def get_users():
    r = requests.get("http://example.com/api/users")
    data = r.json()
    result = []
    for u in data:
        if u["active"] == True:
            result.append({"name": u["first"] + " " + u["last"], "email": u["email"]})
    return result

def main():
    users = get_users()
    f = open("users.csv", "w")
    for u in users:
        f.write(u["name"] + "," + u["email"] + "\n")
    f.close()

main()`,
	},
	{
		Name: "long",
		Code: `class Inventory:
    def __init__(self):
        self.items = {}

    def add(self, name, qty, price):
        if name in self.items.keys():
            self.items[name]["qty"] = self.items[name]["qty"] + qty
            self.items[name]["price"] = price
        else:
            self.items[name] = {"qty": qty, "price": price}

    def remove(self, name, qty):
        if name in self.items.keys():
            if self.items[name]["qty"] >= qty:
                self.items[name]["qty"] = self.items[name]["qty"] - qty
                if self.items[name]["qty"] == 0:
                    del self.items[name]
                return True
            else:
                return False
        else:
            return False

    def total(self):
        t = 0
        for k in self.items.keys():
            t = t + self.items[k]["qty"] * self.items[k]["price"]
        return t

    def report(self):
        lines = []
        for k in sorted(self.items.keys()):
            lines.append(k + ": " + str(self.items[k]["qty"]) + " @ " + str(self.items[k]["price"]))
        return "\n".join(lines)


if __name__ == "__main__":
    inv = Inventory()
    inv.add("apple", 10, 0.5)
    inv.add("pear", 5, 0.75)
    inv.remove("apple", 3)
    print(inv.report())
    print("total:", inv.total())`,
	},
}

// QualitySamples each carry one obvious problem the model should fix.
var QualitySamples = []Sample{
	{Name: "bare-except", Code: `try:
    x = int(input())
except:
    pass`},
	{Name: "mutable-default", Code: `def append(v, acc=[]):
    acc.append(v)
    return acc`},
	{Name: "unclosed-file", Code: `f = open("data.txt")
print(f.read())`},
	{Name: "string-concat-loop", Code: `s = ""
for i in range(1000):
    s += str(i)`},
	{Name: "go-ignored-error", Code: `func read(path string) []byte {
	data, _ := os.ReadFile(path)
	return data
}`},
}
