package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"ticketqr/internal/handlers"
	"ticketqr/internal/middleware"
)

type Options struct {
	SessionSecret  []byte
	SessionTTL     time.Duration
	AllowedOrigins []string
}

func RegisterRouter(h *handlers.Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.LoggingMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(opts.SessionSecret, opts.SessionTTL))

		r.Get("/", h.ShowForm)
		r.Post("/", h.SubmitForm)

		r.Get("/api/v1/draft", h.GetDraft)
		r.Post("/api/v1/draft/image", h.UploadImage)
		r.Patch("/api/v1/draft/{field}", h.PatchField)
		r.Post("/api/v1/ticket", h.GenerateTicket)
		r.Get("/api/v1/ticket/qrcode", h.DownloadQRCode)
	})
	return r
}
