package models

import (
	"encoding/base64"
	"time"
)

// Ticket is an encoded ticket URL. PNG is the self-contained QR image.
type Ticket struct {
	URL       string    `json:"url"`
	PNG       []byte    `json:"png"`
	Seq       uint64    `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

// DataURL renders the PNG as an inline data URL for <img src>.
func (t Ticket) DataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(t.PNG)
}
