package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"ticketqr/internal/handlers"
	"ticketqr/internal/models"
	"ticketqr/internal/router"
	"ticketqr/internal/session"
	"ticketqr/internal/ticket"
)

const base = "https://preview-ebon.vercel.app"

type failingEncoder struct{}

func (failingEncoder) Encode(context.Context, string) ([]byte, error) { return nil, ticket.ErrEncode }

// browser replays the session cookie like a real client would.
type browser struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
}

func newBrowser(t *testing.T, enc ticket.Encoder) *browser {
	t.Helper()
	if enc == nil {
		qr, err := ticket.NewQREncoder("medium", 256)
		if err != nil {
			t.Fatalf("NewQREncoder: %v", err)
		}
		enc = qr
	}
	svc := session.NewService(session.NewMemoryStore(time.Hour), enc, base)
	h := router.RegisterRouter(handlers.New(svc, "qr_code.png", 1<<20), router.Options{
		SessionSecret:  []byte("test-secret"),
		SessionTTL:     time.Hour,
		AllowedOrigins: []string{"*"},
	})
	return &browser{t: t, h: h}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, req)
	if cs := rec.Result().Cookies(); len(cs) > 0 {
		b.cookies = cs
	}
	return rec
}

func (b *browser) patch(field, value string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"value": value})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/draft/"+field, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return b.do(req)
}

func (b *browser) fill(d models.Draft) {
	b.t.Helper()
	for _, f := range models.TextFields {
		if rec := b.patch(string(f), d.Value(f)); rec.Code != http.StatusOK {
			b.t.Fatalf("PATCH %s: %d %s", f, rec.Code, rec.Body.String())
		}
	}
}

func asha() models.Draft {
	return models.Draft{
		FirstName:  "Asha",
		LastName:   "Rao",
		Email:      "asha.ee.24@nitj.ac.in",
		RollNumber: "24126010",
		Gender:     models.GenderFemale,
	}
}

func formValues(d models.Draft) url.Values {
	v := url.Values{}
	for _, f := range models.TextFields {
		v.Set(string(f), d.Value(f))
	}
	return v
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestAPI_GenerateAndDownload(t *testing.T) {
	b := newBrowser(t, nil)
	b.fill(asha())

	rec := b.do(httptest.NewRequest(http.MethodPost, "/api/v1/ticket", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/v1/ticket: %d %s", rec.Code, rec.Body.String())
	}
	got := decode(t, rec)
	if got["status"] != "Generated" {
		t.Fatalf("status = %v", got["status"])
	}
	if got["url"] != base+"/ticket/Asha/asha.ee.24@nitj.ac.in/24126010" {
		t.Fatalf("url = %v", got["url"])
	}
	if qr, _ := got["qr_code"].(string); !strings.HasPrefix(qr, "data:image/png;base64,") {
		t.Fatalf("qr_code is not a PNG data URL")
	}

	rec = b.do(httptest.NewRequest(http.MethodGet, "/api/v1/ticket/qrcode", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("download: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="qr_code.png"` {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("download is not a PNG")
	}
}

func TestAPI_InvalidRollNumber(t *testing.T) {
	b := newBrowser(t, nil)
	d := asha()
	d.RollNumber = "24126061"
	b.fill(d)

	rec := b.do(httptest.NewRequest(http.MethodPost, "/api/v1/ticket", nil))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", rec.Code)
	}
	got := decode(t, rec)
	want := map[string]any{"rollNumber": ticket.MsgRollMismatch}
	if diff := cmp.Diff(want, got["errors"]); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	rec = b.do(httptest.NewRequest(http.MethodGet, "/api/v1/ticket/qrcode", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("download before generation: %d, want 404", rec.Code)
	}
}

func TestAPI_InvalidEmailCarriesHint(t *testing.T) {
	b := newBrowser(t, nil)
	d := asha()
	d.Email = "asha.ee.24@nitj.ac.im"
	b.fill(d)

	got := decode(t, b.do(httptest.NewRequest(http.MethodPost, "/api/v1/ticket", nil)))
	if diff := cmp.Diff(map[string]any{"email": ticket.MsgEmailMismatch}, got["errors"]); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if hint, _ := got["hint"].(string); hint == "" {
		t.Fatalf("expected hint")
	}
}

func TestAPI_EncodeFailure(t *testing.T) {
	b := newBrowser(t, failingEncoder{})
	b.fill(asha())

	rec := b.do(httptest.NewRequest(http.MethodPost, "/api/v1/ticket", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status %d, want 502", rec.Code)
	}
	if got := decode(t, rec); got["status"] != "Encode_Failed" {
		t.Fatalf("status = %v", got["status"])
	}

	got := decode(t, b.do(httptest.NewRequest(http.MethodGet, "/api/v1/draft", nil)))
	if got["encode_error"] != session.MsgEncodeFailed || got["generated"] != false {
		t.Fatalf("unexpected draft view %v", got)
	}
}

func TestAPI_PatchField(t *testing.T) {
	b := newBrowser(t, nil)

	if rec := b.patch("nickname", "x"); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown field: %d, want 404", rec.Code)
	}
	if rec := b.patch("image", "x"); rec.Code != http.StatusNotFound {
		t.Fatalf("image via PATCH: %d, want 404", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/draft/firstName", strings.NewReader(`{}`))
	if rec := b.do(req); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing value: %d, want 400", rec.Code)
	}

	rec := b.patch("firstName", " Asha ")
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH: %d", rec.Code)
	}
	draft, _ := decode(t, rec)["draft"].(map[string]any)
	if draft["firstName"] != " Asha " {
		t.Fatalf("value must be stored untrimmed, got %q", draft["firstName"])
	}
}

func TestAPI_UploadImage(t *testing.T) {
	b := newBrowser(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("photo", "me.png")
	_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\nrest"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/draft/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := b.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	draft, _ := decode(t, rec)["draft"].(map[string]any)
	img, _ := draft["image"].(map[string]any)
	if img["filename"] != "me.png" || img["content_type"] != "image/png" {
		t.Fatalf("unexpected image view %v", img)
	}
}

func TestForm_SubmitRedirectsAndShowsQRCode(t *testing.T) {
	b := newBrowser(t, nil)

	rec := b.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Generate QR Code") || strings.Contains(rec.Body.String(), "Download QR Code") {
		t.Fatalf("fresh page should show the form without a download link")
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(formValues(asha()).Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = b.do(req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /: %d %s", rec.Code, rec.Body.String())
	}

	page := b.do(httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	for _, want := range []string{"data:image/png;base64,", "Download QR Code", `href="/api/v1/ticket/qrcode"`, `value="asha.ee.24@nitj.ac.in"`} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestForm_InvalidSubmitShowsInlineErrors(t *testing.T) {
	b := newBrowser(t, nil)
	d := asha()
	d.Email = "asha@gmail.com"
	d.Gender = ""

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range formValues(d) {
		_ = mw.WriteField(k, vs[0])
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := b.do(req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", rec.Code)
	}
	page := rec.Body.String()
	if !strings.Contains(page, ticket.MsgEmailMismatch) || !strings.Contains(page, ticket.MsgRequired) {
		t.Fatalf("page missing inline errors:\n%s", page)
	}
	if strings.Contains(page, "Download QR Code") {
		t.Fatalf("no ticket should be offered")
	}
}

func TestHealthz(t *testing.T) {
	b := newBrowser(t, nil)
	rec := b.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}
