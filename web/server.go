// Package web serves public landing pages for shared forms. A page shows the
// form title and size and points the visitor into the Telegram bot, mirroring
// what the deep link in chat does.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"log/slog"

	"github.com/formrunner/formrunner/core/logger"
	"github.com/formrunner/formrunner/forms"
	"github.com/formrunner/formrunner/links"
	"github.com/formrunner/formrunner/storage"
)

var pageTmpl = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, sans-serif; max-width: 480px; margin: 48px auto; padding: 0 16px; color: #222; }
.card { border: 1px solid #ddd; border-radius: 12px; padding: 24px; }
.meta { color: #666; margin: 8px 0 24px; }
a.open { display: inline-block; background: #2ea6da; color: #fff; padding: 12px 20px; border-radius: 8px; text-decoration: none; }
</style>
</head>
<body>
<div class="card">
<h1>{{.Title}}</h1>
<p class="meta">{{.QuestionCount}} question(s) &middot; about {{.Minutes}} minute(s)</p>
<a class="open" href="{{.BotLink}}">Open in Telegram</a>
</div>
</body>
</html>
`))

type pageData struct {
	Title         string
	QuestionCount int
	Minutes       int
	BotLink       string
}

// Server exposes the landing pages and a health endpoint.
type Server struct {
	store  storage.Store
	links  *links.Builder
	listen string
}

// NewServer builds the landing-page server.
func NewServer(store storage.Store, lb *links.Builder, listen string) *Server {
	return &Server{store: store, links: lb, listen: listen}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /form/{id}", s.formPage)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("formrunner"))
	})

	return mux
}

func (s *Server) formPage(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	id, ok := links.ParseFormID(r.PathValue("id"))
	if !ok {
		http.Error(w, "invalid form id", http.StatusBadRequest)
		return
	}

	form, err := s.store.GetForm(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logger.Web.Error("form page failed",
			slog.String("event", "page.form"),
			slog.Int64("form_id", id),
			slog.String("err", err.Error()),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pageData{
		Title:         form.Title,
		QuestionCount: len(form.Questions),
		Minutes:       estimatedMinutes(form),
		BotLink:       s.links.BotLink(form.ID),
	}
	if err := pageTmpl.Execute(w, data); err != nil {
		logger.Web.Error("template render failed",
			slog.String("event", "page.form"),
			slog.Int64("form_id", id),
			slog.String("err", err.Error()),
		)
		return
	}

	logger.Web.Info("form page served",
		slog.String("event", "page.form"),
		slog.Int64("form_id", id),
		slog.Duration("took", logger.RoundMS(time.Since(started))),
	)
}

func estimatedMinutes(form *forms.Form) int {
	return (len(form.Questions) + 1) / 2
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listen,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Web.Info("listening",
			slog.String("event", "listen"),
			slog.String("addr", s.listen),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("web: shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web: %w", err)
		}
		return nil
	}
}
