package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"strings"

	"github.com/yomigo/yomigo-server/internal/apperrors"
)

// DecodedImage holds a decoded request image and its source metadata.
type DecodedImage struct {
	// Image is the decoded pixel buffer.
	Image image.Image

	// Width and Height are the buffer dimensions in pixels.
	Width  int
	Height int

	// Format is the detected source format name ("png", "jpeg", "gif").
	Format string
}

// maxPixels caps decoded image size to keep a single request from
// exhausting memory. 64 megapixels is far beyond any screen capture.
const maxPixels = 64 << 20

// Decode converts raw request bytes into a pixel buffer.
//
// The declared MIME type is advisory only; the actual format is sniffed from
// the payload, matching how browsers label canvas captures inconsistently.
//
// Returns an apperrors.KindInvalidImage error when the payload is empty,
// corrupt, of an unregistered format, or implausibly large.
func Decode(data []byte, mimeType string) (*DecodedImage, error) {
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.KindInvalidImage, "empty image payload")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidImage,
			fmt.Sprintf("cannot decode image (declared %q)", mimeType), err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxPixels {
		return nil, apperrors.New(apperrors.KindInvalidImage,
			fmt.Sprintf("unreasonable image dimensions %dx%d", cfg.Width, cfg.Height))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidImage, "cannot decode image", err)
	}

	return &DecodedImage{
		Image:  img,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Format: format,
	}, nil
}

// DecodeBase64 decodes a base64-encoded image as produced by the browser's
// canvas.toDataURL(). A "data:image/png;base64," style prefix is tolerated
// and stripped.
func DecodeBase64(encoded string) (*DecodedImage, error) {
	mimeType := ""
	if i := strings.IndexByte(encoded, ','); i >= 0 && strings.HasPrefix(encoded, "data:") {
		header := encoded[:i]
		if j := strings.IndexByte(header, ':'); j >= 0 {
			mimeType = strings.TrimSuffix(header[j+1:], ";base64")
		}
		encoded = encoded[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidImage, "invalid base64 image data", err)
	}
	return Decode(data, mimeType)
}
