package server

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/crawford/tailor/internal/worker"
)

const defaultStatusTemplate = `<!DOCTYPE html>
<html>
<head><title>tailor status</title></head>
<body>
{{if .DecodeFailed}}
<p>decode failed</p>
{{else if .Lines}}
<ul>
{{range .Lines}}<li>{{.}}</li>
{{end}}
</ul>
{{else}}
<p>no failures</p>
{{end}}
</body>
</html>
`

// jobProducer is the subset of worker.Worker the webhook handler needs.
type jobProducer interface {
	QueuePullRequest(job worker.PullRequestJob) error
}

// Server is tailor's HTTP surface: webhook intake and the status page.
type Server struct {
	router   chi.Router
	producer jobProducer
	tmpl     *template.Template
	log      *slog.Logger
}

// New builds a Server. templatesDir may be empty, in which case a built-in
// status template is used.
func New(producer jobProducer, templatesDir string, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}

	tmpl, err := loadStatusTemplate(templatesDir)
	if err != nil {
		return nil, err
	}

	s := &Server{producer: producer, tmpl: tmpl, log: log}
	s.router = s.buildRouter()
	return s, nil
}

func loadStatusTemplate(templatesDir string) (*template.Template, error) {
	if templatesDir == "" {
		return template.New("status").Parse(defaultStatusTemplate)
	}
	path := filepath.Join(templatesDir, "status.html.tmpl")
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/webhook", s.handleWebhook)
	r.Get("/status", s.handleStatus)

	return r
}
