package tray

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

//go:embed assets/icon_enabled.png
var iconEnabledPNG []byte

//go:embed assets/icon_disabled.png
var iconDisabledPNG []byte

// pixmap is one entry of the StatusNotifierItem IconPixmap property,
// marshaled over D-Bus as (iiay) with ARGB32 pixel data in network byte
// order.
type pixmap struct {
	Width  int32
	Height int32
	Data   []byte
}

// decodeIcon converts an embedded PNG into the ARGB32 pixmap the
// StatusNotifierItem protocol expects.
func decodeIcon(data []byte) (pixmap, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return pixmap{}, fmt.Errorf("failed to decode icon: %w", err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	argb := make([]byte, len(rgba.Pix))
	for i := 0; i+3 < len(rgba.Pix); i += 4 {
		r, g, b, a := rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2], rgba.Pix[i+3]
		argb[i], argb[i+1], argb[i+2], argb[i+3] = a, r, g, b
	}

	return pixmap{
		Width:  int32(bounds.Dx()),
		Height: int32(bounds.Dy()),
		Data:   argb,
	}, nil
}
