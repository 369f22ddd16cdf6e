package modernblog

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/eringen/modernblog/editor"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 5 << 20 // 5MB
	// maxImagePixels bounds the decoded canvas, not the compressed upload.
	maxImagePixels = 25_000_000
)

var errImageTooLarge = errors.New("image dimensions too large")

// Image is an uploaded picture ready to be embedded in post content.
type Image struct {
	Src    string `json:"src"`
	HTML   string `json:"html"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int    `json:"size"`
}

// processImage decodes an image from src, resizes it to maxImageWidth if it
// is wider, and re-encodes it as JPEG. The header is checked against
// maxImagePixels before any pixels are decoded.
func processImage(src io.Reader) (data []byte, width, height int, err error) {
	raw, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("read image: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxImagePixels/max(cfg.Height, 1) {
		return nil, 0, 0, fmt.Errorf("%dx%d: %w", cfg.Width, cfg.Height, errImageTooLarge)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := max(h*maxImageWidth/w, 1)
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, 0, 0, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), w, h, nil
}

// dataURL inlines JPEG bytes so the image lives inside the post content.
func dataURL(jpg []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpg)
}

// imageAlt is the alt text for an upload: the form value, else the file
// name without its extension.
func imageAlt(alt, filename string) string {
	if alt = strings.TrimSpace(alt); alt != "" {
		return alt
	}
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}

func (a *App) handleImageUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No image file provided")
	}
	if !strings.HasPrefix(file.Header.Get(echo.HeaderContentType), "image/") {
		return echo.NewHTTPError(http.StatusBadRequest, "Please select an image file")
	}
	if file.Size > maxUploadSize {
		return echo.NewHTTPError(http.StatusBadRequest, "Image size must be less than 5MB")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, w, h, err := processImage(src)
	switch {
	case errors.Is(err, errImageTooLarge):
		return echo.NewHTTPError(http.StatusBadRequest, "Image dimensions are too large")
	case err != nil:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid image")
	}

	url := dataURL(data)
	return RenderStatus(c, http.StatusCreated, Image{
		Src:    url,
		HTML:   editor.ImageHTML(url, imageAlt(c.FormValue("alt"), file.Filename)),
		Width:  w,
		Height: h,
		Size:   len(data),
	})
}
