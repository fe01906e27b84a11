package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ticketqr/internal/models"
	"ticketqr/internal/session"
)

type imageView struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type draftView struct {
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	RollNumber string     `json:"rollNumber"`
	Gender     string     `json:"gender"`
	Image      *imageView `json:"image,omitempty"`
}

type stateView struct {
	Draft       draftView               `json:"draft"`
	Errors      map[models.Field]string `json:"errors,omitempty"`
	Generated   bool                    `json:"generated"`
	TicketURL   string                  `json:"ticket_url,omitempty"`
	Seq         uint64                  `json:"seq"`
	EncodeError string                  `json:"encode_error,omitempty"`
}

func viewState(st session.State) stateView {
	v := stateView{
		Draft: draftView{
			FirstName:  st.Draft.FirstName,
			LastName:   st.Draft.LastName,
			Email:      st.Draft.Email,
			RollNumber: st.Draft.RollNumber,
			Gender:     string(st.Draft.Gender),
		},
		Errors:      st.Errors,
		Generated:   st.Generated(),
		Seq:         st.Seq,
		EncodeError: st.EncodeError,
	}
	if img := st.Draft.Image; img != nil {
		v.Draft.Image = &imageView{Filename: img.Filename, ContentType: img.ContentType, Size: img.Size}
	}
	if st.Ticket != nil {
		v.TicketURL = st.Ticket.URL
	}
	return v
}

// GET /api/v1/draft
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	st, err := h.svc.State(r.Context(), sid)
	if err != nil {
		storeFailed(w, "GetDraft", "failed to load session", err)
		return
	}
	writeJSONResp(w, http.StatusOK, viewState(st))
}

// PATCH /api/v1/draft/{field}
// Body: { "value": "..." }
func (h *Handler) PatchField(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	field, ok := models.ParseField(chi.URLParam(r, "field"))
	if !ok {
		writeJSONResp(w, http.StatusNotFound, map[string]any{"status": "Unknown_Field", "message": "no such field"})
		return
	}

	var body struct {
		Value *string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Value == nil {
		http.Error(w, "invalid json: expected {\"value\": string}", http.StatusBadRequest)
		return
	}

	st, err := h.svc.SetField(r.Context(), sid, field, *body.Value)
	if err != nil {
		storeFailed(w, "PatchField", "failed to save field", err)
		return
	}
	writeJSONResp(w, http.StatusOK, viewState(st))
}

// POST /api/v1/draft/image
// multipart/form-data with file field "image"
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "failed to parse form or file too large"})
		return
	}
	img, err := readImage(r)
	if err != nil || img == nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "missing file field 'image'"})
		return
	}
	st, err := h.svc.SetImage(r.Context(), sid, img)
	if err != nil {
		storeFailed(w, "UploadImage", "failed to save image", err)
		return
	}
	writeJSONResp(w, http.StatusOK, viewState(st))
}
