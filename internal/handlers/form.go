package handlers

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/schema"

	"ticketqr/internal/models"
	"ticketqr/internal/session"
	"ticketqr/internal/web"
)

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// registrationForm is the posted form; every control is always sent.
type registrationForm struct {
	FirstName  string `schema:"firstName"`
	LastName   string `schema:"lastName"`
	Email      string `schema:"email"`
	RollNumber string `schema:"rollNumber"`
	Gender     string `schema:"gender"`
}

func (f registrationForm) values() map[models.Field]string {
	return map[models.Field]string{
		models.FieldFirstName:  f.FirstName,
		models.FieldLastName:   f.LastName,
		models.FieldEmail:      f.Email,
		models.FieldRollNumber: f.RollNumber,
		models.FieldGender:     f.Gender,
	}
}

// GET /
func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	st, err := h.svc.State(r.Context(), sid)
	if err != nil {
		storeFailed(w, "ShowForm", "failed to load session", err)
		return
	}
	h.renderPage(w, http.StatusOK, st, "")
}

// POST /
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			http.Error(w, "failed to parse form or file too large", http.StatusBadRequest)
			return
		}
	} else if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	var form registrationForm
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		http.Error(w, "invalid form values", http.StatusBadRequest)
		return
	}
	img, err := readImage(r)
	if err != nil {
		http.Error(w, "failed to read uploaded image", http.StatusBadRequest)
		return
	}

	if _, err := h.svc.Apply(r.Context(), sid, form.values(), img); err != nil {
		storeFailed(w, "SubmitForm: apply", "failed to save form", err)
		return
	}
	out, err := h.svc.Submit(r.Context(), sid)
	if err != nil {
		storeFailed(w, "SubmitForm: submit", "failed to submit form", err)
		return
	}

	switch {
	case !out.Valid:
		h.renderPage(w, http.StatusUnprocessableEntity, out.State, out.Hint)
	case out.Err != nil && !out.Stale:
		h.renderPage(w, http.StatusBadGateway, out.State, "")
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, st session.State, hint string) {
	page := web.Page{
		Title:       pageTitle,
		Hint:        hint,
		EncodeError: st.EncodeError,
		Generated:   st.Generated(),
		DownloadURL: "/api/v1/ticket/qrcode",
		Filename:    h.filename,
		Gender: web.Input{
			Name:  string(models.FieldGender),
			Value: string(st.Draft.Gender),
			Error: st.Errors[models.FieldGender],
		},
	}
	for _, g := range models.Genders {
		page.Genders = append(page.Genders, string(g))
	}
	for _, in := range textInputs {
		in.Value = st.Draft.Value(models.Field(in.Name))
		in.Error = st.Errors[models.Field(in.Name)]
		page.Inputs = append(page.Inputs, in)
	}
	if st.Ticket != nil {
		// The payload is our own PNG, safe to inline.
		page.QRDataURL = template.URL(st.Ticket.DataURL())
	}

	var buf bytes.Buffer
	if err := web.Render(&buf, page); err != nil {
		log.Println("renderPage:", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

var textInputs = []web.Input{
	{Name: string(models.FieldFirstName), Type: "text", Placeholder: "First Name"},
	{Name: string(models.FieldLastName), Type: "text", Placeholder: "Last Name"},
	{Name: string(models.FieldEmail), Type: "email", Placeholder: "Official Email id"},
	{Name: string(models.FieldRollNumber), Type: "number", Placeholder: "Roll Number"},
}
