package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
)

// ImageProcessor downsizes uploaded photos into roster thumbnails.
type ImageProcessor struct {
	quality int
}

// NewImageProcessor creates an ImageProcessor with the default JPEG quality.
func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{quality: 80}
}

// GenerateThumbnail creates a JPEG thumbnail bounded by maxWidth x maxHeight,
// preserving aspect ratio.
func (p *ImageProcessor) GenerateThumbnail(content io.Reader, maxWidth, maxHeight int) (io.Reader, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumbnail := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, thumbnail, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf, nil
}
