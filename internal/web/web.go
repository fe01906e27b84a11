package web

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var files embed.FS

var index = template.Must(template.ParseFS(files, "templates/index.html"))

// Input is one rendered form control.
type Input struct {
	Name        string
	Type        string
	Placeholder string
	Value       string
	Error       string
}

// Page is the data behind the registration page.
type Page struct {
	Title       string
	Inputs      []Input
	Gender      Input
	Genders     []string
	Hint        string
	EncodeError string
	Generated   bool
	QRDataURL   template.URL
	DownloadURL string
	Filename    string
}

func Render(w io.Writer, p Page) error {
	return index.Execute(w, p)
}
