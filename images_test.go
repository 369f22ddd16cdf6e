package modernblog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"net/http"
	"strings"
	"testing"
)

// withPNGSize rewrites the IHDR dimensions of a PNG without touching its
// pixel data, so the header promises a canvas the data never fills.
func withPNGSize(t *testing.T, png []byte, w, h uint32) []byte {
	t.Helper()
	out := bytes.Clone(png)
	if string(out[12:16]) != "IHDR" {
		t.Fatalf("unexpected PNG layout")
	}
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestProcessImageResizes(t *testing.T) {
	data, w, h, err := processImage(bytes.NewReader(pngBytes(t, 1000, 50)))
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if w != maxImageWidth || h != 40 {
		t.Errorf("size = %dx%d, want %dx40", w, h, maxImageWidth)
	}
	if len(data) == 0 {
		t.Error("no JPEG bytes")
	}

	_, w, h, err = processImage(bytes.NewReader(pngBytes(t, 30, 20)))
	if err != nil || w != 30 || h != 20 {
		t.Errorf("small image = %dx%d, %v", w, h, err)
	}
}

func TestProcessImageRejectsHugeCanvas(t *testing.T) {
	huge := withPNGSize(t, pngBytes(t, 4, 4), 100_000, 100_000)
	if _, _, _, err := processImage(bytes.NewReader(huge)); !errors.Is(err, errImageTooLarge) {
		t.Errorf("err = %v, want errImageTooLarge", err)
	}

	if _, _, _, err := processImage(strings.NewReader("not an image")); err == nil {
		t.Error("expected decode error")
	}
}

func TestImageUploadRejectsHugeCanvas(t *testing.T) {
	_, tc := setupTestApp(t, nil)
	tc.loginAdmin()

	huge := withPNGSize(t, pngBytes(t, 4, 4), 60_000, 60_000)
	body, ct := multipartImage(t, "bomb.png", "image/png", huge)
	var e errorBody
	decodeBody(t, tc.do(http.MethodPost, "/api/admin/images", body, ct), http.StatusBadRequest, &e)
	if e.Error != "Image dimensions are too large" {
		t.Errorf("error = %q", e.Error)
	}
}

func TestImageAlt(t *testing.T) {
	if got := imageAlt("  A sunset ", "x.png"); got != "A sunset" {
		t.Errorf("imageAlt = %q", got)
	}
	if got := imageAlt("", "holiday.photo.jpg"); got != "holiday.photo" {
		t.Errorf("imageAlt = %q", got)
	}
}
