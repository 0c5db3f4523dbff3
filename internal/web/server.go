// Package web serves the read-only listing of tasting records: newest first,
// photos included. It shares the record service with the bot but never
// touches sessions.
package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
	"github.com/dmitrijs2005/winelog/internal/logging"
)

//go:embed templates/*.html
var templates embed.FS

const listLimit = 200

// RecordLister is the read path into stored records.
// services.RecordService satisfies it.
type RecordLister interface {
	ListRecent(ctx context.Context, limit int) ([]models.TastingRecord, error)
}

type Server struct {
	lister RecordLister
	mux    *http.ServeMux
	tmpl   *template.Template
	logger logging.Logger
}

func NewServer(lister RecordLister, logger logging.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		lister: lister,
		mux:    http.NewServeMux(),
		tmpl:   tmpl,
		logger: logger.With("component", "web"),
	}
	s.mux.HandleFunc("GET /", s.handleList)
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.lister.ListRecent(r.Context(), listLimit)
	if err != nil {
		s.logger.Error(r.Context(), "listing failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := s.tmpl.ExecuteTemplate(w, "records.html", recs); err != nil {
		s.logger.Error(r.Context(), "template render failed", "error", err)
	}
}
