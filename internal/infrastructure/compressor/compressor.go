package compressor

import (
	"bytes"
	"fmt"

	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/deps"
	"github.com/disintegration/imaging"
)

const (
	maxWidth    = 1600
	jpegQuality = 75
)

type Compressor struct{}

// NewCompressor creates the image compressor used to fit oversized article
// images under the upload size limit.
func NewCompressor() deps.ImageCompressor {
	return &Compressor{}
}

// Compress downscales the image and re-encodes it as JPEG.
func (Compressor) Compress(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
