package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"ticketqr/internal/middleware"
	"ticketqr/internal/session"
)

const pageTitle = "Fresher's Party 2024 Batch - Roulette"

// Handler serves the registration form and its JSON API for one Service.
type Handler struct {
	svc       *session.Service
	filename  string
	maxUpload int64
}

func New(svc *session.Service, filename string, maxUpload int64) *Handler {
	if filename == "" {
		filename = "qr_code.png"
	}
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &Handler{svc: svc, filename: filename, maxUpload: maxUpload}
}

func writeJSONResp(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// sessionID pulls the id set by middleware.SessionMiddleware, answering 401 when absent.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sid := middleware.SessionID(r.Context())
	if sid == "" {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return "", false
	}
	return sid, true
}

// storeFailed answers a session store error: 503 with Retry-After when the
// write lost to concurrent writers, 500 otherwise.
func storeFailed(w http.ResponseWriter, where, msg string, err error) {
	log.Printf("%s: %v", where, err)
	if errors.Is(err, session.ErrContention) {
		w.Header().Set("Retry-After", "1")
		http.Error(w, "session busy, please retry", http.StatusServiceUnavailable)
		return
	}
	http.Error(w, msg, http.StatusInternalServerError)
}
