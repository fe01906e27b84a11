package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

var ErrEncode = errors.New("ticket: qr encoding failed")

// Encoder turns text into a self-contained image payload.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]byte, error)
}

// QREncoder renders PNG QR codes.
type QREncoder struct {
	Level qrcode.RecoveryLevel
	Size  int
}

// NewQREncoder builds an encoder for the named recovery level
// (low, medium, high, highest) and pixel size.
func NewQREncoder(level string, size int) (*QREncoder, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("ticket: qr size must be positive, got %d", size)
	}
	return &QREncoder{Level: l, Size: size}, nil
}

func (e *QREncoder) Encode(ctx context.Context, text string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(text, e.Level, e.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	// The caller may have given up while we were encoding.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return png, nil
}

func ParseLevel(s string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return qrcode.Low, nil
	case "", "medium":
		return qrcode.Medium, nil
	case "high":
		return qrcode.High, nil
	case "highest":
		return qrcode.Highest, nil
	}
	return qrcode.Medium, fmt.Errorf("ticket: unknown qr level %q", s)
}
