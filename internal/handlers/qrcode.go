package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ticketqr/internal/session"
)

// POST /api/v1/ticket
func (h *Handler) GenerateTicket(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	out, err := h.svc.Submit(r.Context(), sid)
	if err != nil {
		storeFailed(w, "GenerateTicket", "failed to submit", err)
		return
	}

	switch {
	case !out.Valid:
		resp := map[string]any{"status": "Invalid", "errors": out.State.Errors}
		if out.Hint != "" {
			resp["hint"] = out.Hint
		}
		writeJSONResp(w, http.StatusUnprocessableEntity, resp)
	case out.Stale:
		writeJSONResp(w, http.StatusConflict, map[string]any{
			"status":  "Superseded",
			"message": "A newer submission replaced this one.",
			"seq":     out.State.Seq,
		})
	case out.Err != nil:
		writeJSONResp(w, http.StatusBadGateway, map[string]any{"status": "Encode_Failed", "message": session.MsgEncodeFailed})
	default:
		tk := out.State.Ticket
		writeJSONResp(w, http.StatusOK, map[string]any{
			"status":  "Generated",
			"url":     tk.URL,
			"qr_code": tk.DataURL(),
			"seq":     tk.Seq,
		})
	}
}

// GET /api/v1/ticket/qrcode
func (h *Handler) DownloadQRCode(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	tk, err := h.svc.Export(r.Context(), sid)
	if errors.Is(err, session.ErrNoTicket) {
		http.Error(w, "no QR code generated yet", http.StatusNotFound)
		return
	} else if err != nil {
		storeFailed(w, "DownloadQRCode", "failed to load ticket", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(tk.PNG)))
	w.WriteHeader(http.StatusOK)
	w.Write(tk.PNG)
}
