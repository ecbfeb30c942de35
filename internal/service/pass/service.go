// Package pass renders a confirmed booking into a scannable gym pass.
package pass

import (
	"fmt"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/musclemeter/musclemeter/internal/domain"
)

const dateLayout = "2006-01-02"

// imageSize is 10 px per module for a version-1 code including its
// 4-module quiet zone (29 modules a side).
const imageSize = 290

// Brand colors: lime modules on near-black.
var (
	foreground = color.RGBA{R: 0xCC, G: 0xFF, B: 0x00, A: 0xFF}
	background = color.RGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xFF}
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render encodes the booking credential and validity window into a PNG QR
// code. The output is deterministic for identical input and can be base64
// encoded by the transport for embedding.
//
// Error correction is the lowest level: the payload is short and passes are
// displayed on screens, not crumpled paper.
func (r *Renderer) Render(b *domain.Booking, gymName string) ([]byte, error) {
	const op = "service.pass.Render"

	payload := fmt.Sprintf(
		"MuscleMeter Pass\nCode: %s\nGym: %s\nValid: %s to %s",
		b.AccessCode,
		gymName,
		b.StartDate.Format(dateLayout),
		b.EndDate.Format(dateLayout),
	)

	q, err := qrcode.New(payload, qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q.ForegroundColor = foreground
	q.BackgroundColor = background

	png, err := q.PNG(imageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return png, nil
}
