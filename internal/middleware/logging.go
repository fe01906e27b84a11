package middleware

import (
	"log"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// LoggingMiddleware logs one line per request once it has been served.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Printf("%s %s %d %dB %s [%s]", r.Method, r.URL.Path, status, ww.BytesWritten(),
			time.Since(start).Round(time.Microsecond), chimw.GetReqID(r.Context()))
	})
}
