// Package assets copies glossary images beside the generated site,
// downscaling oversized ones so a photographed herbarium sheet does not
// dominate the page weight.
package assets

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"math"
	"os"
	"path/filepath"

	// Register decoders for the formats glossary authors actually use.
	_ "image/gif"
	_ "image/png"

	"github.com/dichokey/dichokey/pkg/domain"
	"github.com/nfnt/resize"
)

// maxArea is the pixel budget an image may occupy before it gets scaled
// down, preserving aspect ratio.
const maxArea = 1024 * 1024

const jpegQuality = 50

// Copy transfers an image file. With shrink set, images above the area
// budget are Lanczos-downscaled and re-encoded as JPEG; otherwise the file
// is copied verbatim. A missing source maps to ErrMissingAsset so callers
// can degrade to a warning.
func Copy(srcPath, dstPath string, shrink bool) error {
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", domain.ErrMissingAsset, srcPath)
		}
		return err
	}
	defer src.Close()

	if !shrink {
		return copyRaw(src, dstPath)
	}

	img, _, err := image.Decode(src)
	if err != nil {
		// Not decodable (svg, exotic format): fall back to a raw copy.
		if _, serr := src.Seek(0, io.SeekStart); serr != nil {
			return serr
		}
		return copyRaw(src, dstPath)
	}

	bounds := img.Bounds()
	area := bounds.Dx() * bounds.Dy()
	if factor := float64(area) / float64(maxArea); factor > 1.0 {
		root := math.Sqrt(factor)
		width := uint(float64(bounds.Dx()) / root)
		img = resize.Resize(width, 0, img, resize.Lanczos3)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer dst.Close()
	return jpeg.Encode(dst, img, &jpeg.Options{Quality: jpegQuality})
}

func copyRaw(src io.Reader, dstPath string) error {
	dst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}
