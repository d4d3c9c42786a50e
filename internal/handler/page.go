package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mlorentedev/improver/internal/improve"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// pageData fills the form template. At most one of Warning, Success and
// Error is set. The API key is never written back into the page.
type pageData struct {
	Model    string
	Code     string
	Warning  string
	Success  string
	Error    string
	Improved string
	Language string
}

// Page serves the HTML form on GET and runs one improvement on POST.
// The router restricts it to those two methods.
func Page(svc *improve.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{Model: svc.Adapter.Model()}

		if r.Method == http.MethodGet {
			renderPage(w, r, http.StatusOK, data)
			return
		}

		if err := r.ParseForm(); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				data.Error = improve.ErrorPrefix + "request body too large"
				renderPage(w, r, http.StatusRequestEntityTooLarge, data)
				return
			}
			data.Error = improve.ErrorPrefix + "invalid form submission"
			renderPage(w, r, http.StatusBadRequest, data)
			return
		}

		data.Code = r.PostForm.Get("code")
		res := svc.Improve(r.Context(), improve.Request{
			Credential: r.PostForm.Get("api_key"),
			Source:     data.Code,
		})

		switch {
		case res.OK():
			data.Success = res.Message()
			data.Improved = res.Text
			data.Language = res.Language()
		case res.Failure.Kind == improve.KindGeneration:
			data.Error = res.Message()
		default:
			data.Warning = res.Message()
		}
		renderPage(w, r, http.StatusOK, data)
	}
}

func renderPage(w http.ResponseWriter, r *http.Request, code int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := pageTemplate.Execute(w, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("render page")
	}
}
