package helper

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxUploadBytes = 5 << 20 // 5MB source cap

// WebPOptions controls recompression of uploaded cover images.
type WebPOptions struct {
	Quality float32
	MaxW    int
	MaxH    int
}

func DefaultCoverOptions() WebPOptions {
	return WebPOptions{Quality: 80, MaxW: 1280, MaxH: 720}
}

/* =======================================================================
   Decode (jpeg/png/webp) from []byte with MIME sniff
======================================================================= */

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	var (
		img image.Image
		err error
	)

	switch {
	case strings.Contains(ct, "jpeg"):
		img, err = jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		img, err = png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		img, err = webp.Decode(bytes.NewReader(all))
	default:
		// fallback by extension
		ext := strings.ToLower(filepath.Ext(filename))
		switch ext {
		case ".jpg", ".jpeg":
			img, err = jpeg.Decode(bytes.NewReader(all))
		case ".png":
			img, err = png.Decode(bytes.NewReader(all))
		case ".webp":
			img, err = webp.Decode(bytes.NewReader(all))
		default:
			return nil, fmt.Errorf("unsupported format: %s / %s", ct, ext)
		}
	}
	return img, err
}

/* =======================================================================
   Convert: read → decode → fit into MaxW×MaxH → encode webp
======================================================================= */

func ConvertToWebP(fh *multipart.FileHeader, opt WebPOptions) ([]byte, error) {
	if fh.Size > maxUploadBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "Image may be at most 5MB")
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	all, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(all) > maxUploadBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "Image may be at most 5MB")
	}

	img, err := decodeImage(all, fh.Filename)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnsupportedMediaType, "Unsupported image format (use jpg/png/webp)")
	}

	if opt.MaxW > 0 || opt.MaxH > 0 {
		b := img.Bounds()
		if b.Dx() > opt.MaxW || b.Dy() > opt.MaxH {
			img = imaging.Fit(img, opt.MaxW, opt.MaxH, imaging.Lanczos)
		}
	}

	q := opt.Quality
	if q <= 0 {
		q = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: q}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

/* =======================================================================
   Local storage
======================================================================= */

// SaveCoverImage writes webp bytes into dir and returns the public URL path.
// Files are served by the static /uploads route.
func SaveCoverImage(dir string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.webp", time.Now().Format("20060102"), uuid.New().String())
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write cover image: %w", err)
	}
	return "/uploads/" + name, nil
}

// RemoveCoverImage deletes a previously stored cover by its public path, best-effort.
func RemoveCoverImage(dir, publicPath string) {
	name := strings.TrimPrefix(publicPath, "/uploads/")
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, "/\\") {
		return
	}
	_ = os.Remove(filepath.Join(dir, name))
}
