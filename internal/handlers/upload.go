package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"ticketqr/internal/models"
)

var imageFieldNames = []string{"image", "photo", "file", "upload"}

// readImage returns the uploaded photo, or nil when the request carries none.
// It accepts a few common field names before falling back to the first file.
func readImage(r *http.Request) (*models.Image, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
		return nil, nil
	}

	var header *multipart.FileHeader
	for _, name := range imageFieldNames {
		for k, hs := range r.MultipartForm.File {
			if strings.EqualFold(k, name) && len(hs) > 0 {
				header = hs[0]
				break
			}
		}
		if header != nil {
			break
		}
	}
	if header == nil {
		for k, hs := range r.MultipartForm.File {
			if len(hs) > 0 {
				log.Println("upload: falling back to file field:", k)
				header = hs[0]
				break
			}
		}
	}
	if header == nil {
		return nil, nil
	}
	// Browsers send an empty part when no file was picked.
	if header.Filename == "" && header.Size == 0 {
		return nil, nil
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("uploaded file is empty")
	}

	ct := header.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return &models.Image{
		Filename:    header.Filename,
		ContentType: ct,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
