package improve

import "time"

// Kind classifies why a request produced no text.
type Kind int

const (
	KindMissingInput Kind = iota + 1
	KindInputTooLarge
	KindGeneration
)

func (k Kind) String() string {
	switch k {
	case KindMissingInput:
		return "missing_input"
	case KindInputTooLarge:
		return "input_too_large"
	case KindGeneration:
		return "generation_failure"
	default:
		return "unknown"
	}
}

// Failure is the error half of a Result.
type Failure struct {
	Kind Kind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Kind.String()
	}
	return f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

// Result holds either the generated text or a Failure, never both.
type Result struct {
	Text    string
	Model   string
	Elapsed time.Duration
	Failure *Failure
}

func (r Result) OK() bool { return r.Failure == nil }

// Err returns the failure as an error, or nil on success.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// Language is the display hint for the code block.
func (r Result) Language() string { return Language }

// Outcome is a short label used for metrics and logs.
func (r Result) Outcome() string {
	if r.OK() {
		return "success"
	}
	return r.Failure.Kind.String()
}

// Message is the single line shown to the user alongside the result.
// Generation failures carry ErrorPrefix; input problems are shown as warnings.
func (r Result) Message() string {
	if r.OK() {
		return SuccessMessage
	}
	if r.Failure.Kind == KindGeneration {
		return ErrorPrefix + r.Failure.Error()
	}
	return r.Failure.Error()
}
