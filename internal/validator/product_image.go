package validator

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"storefront/internal/domain/model"

	"github.com/cockroachdb/errors"
)

var ErrNoImage = errors.New("no image")

// 商品画像の検証エラー
type ImageError struct {
	Message string
}

func (e *ImageError) Error() string {
	return e.Message
}

// ValidateProductImage はサイズ（6MiB以下）と縦横（400〜4000px）をチェックする。
func ValidateProductImage(r io.Reader, size int64) error {
	if r == nil || size <= 0 {
		return ErrNoImage
	}

	if size > model.ProductImageMaxSize {
		return &ImageError{Message: fmt.Sprintf(
			"the image size is %d MB, it must be at most %d MB",
			size/1024/1024, model.ProductImageMaxSize/1024/1024,
		)}
	}

	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return &ImageError{Message: "unsupported image: " + err.Error()}
	}

	if cfg.Width < model.ProductImageMinPixels || cfg.Width > model.ProductImageMaxPixels {
		return &ImageError{Message: fmt.Sprintf(
			"the image is %d px wide, it must be between %d and %d",
			cfg.Width, model.ProductImageMinPixels, model.ProductImageMaxPixels,
		)}
	}
	if cfg.Height < model.ProductImageMinPixels || cfg.Height > model.ProductImageMaxPixels {
		return &ImageError{Message: fmt.Sprintf(
			"the image is %d px high, it must be between %d and %d",
			cfg.Height, model.ProductImageMinPixels, model.ProductImageMaxPixels,
		)}
	}
	return nil
}
