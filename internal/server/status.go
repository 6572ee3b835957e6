package server

import (
	"net/http"
	"strings"

	"github.com/crawford/tailor/internal/statuslink"
)

type statusPageData struct {
	DecodeFailed bool
	Lines        []string
}

// handleStatus decodes the snap token and renders the failure list it
// carries. A malformed token still gets a 200 response with a
// user-visible "decode failed" page — there's no provider call involved,
// so there's no 500 case here.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := r.URL.Query().Get("snap")

	data := statusPageData{}
	text, err := statuslink.Decode(snap)
	if err != nil {
		data.DecodeFailed = true
	} else if text != "" {
		data.Lines = strings.Split(text, "\n")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.Error("status: render template failed", "error", err)
	}
}
