package upload

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"mime/multipart"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/fixmyward/fixmyward/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestImage(t *testing.T, format imaging.Format) []byte {
	t.Helper()
	img := imaging.New(16, 9, color.NRGBA{R: 120, G: 120, B: 120, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func TestFromDataURI(t *testing.T) {
	data := encodeTestImage(t, imaging.JPEG)
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)

	img, err := FromDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)
	assert.Equal(t, 16, img.Width)
	assert.Equal(t, 9, img.Height)
	assert.Equal(t, ".jpg", img.Extension())
	assert.Nil(t, img.Metadata.TakenAt)
}

func TestFromDataURIAcceptsBareBase64(t *testing.T) {
	data := encodeTestImage(t, imaging.PNG)

	img, err := FromDataURI(base64.StdEncoding.EncodeToString(data))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, ".png", img.Extension())
}

func TestFromDataURIRejectsBadInput(t *testing.T) {
	html := base64.StdEncoding.EncodeToString([]byte("<html><body>hi</body></html>"))
	cases := map[string]string{
		"empty":        "",
		"no comma":     "data:image/png;base64",
		"not base64":   "data:image/png;base64,@@@@",
		"plain header": "data:image/png," + base64.StdEncoding.EncodeToString([]byte("x")),
		"html":         "data:text/html;base64," + html,
		"truncated":    "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n")),
	}
	for name, uri := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromDataURI(uri)
			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		})
	}
}

func TestValidateImageBySniff(t *testing.T) {
	jpeg := encodeTestImage(t, imaging.JPEG)

	mime, err := ValidateImageBySniff("pothole.JPG", jpeg)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)

	_, err = ValidateImageBySniff("pothole.svg", jpeg)
	assert.Error(t, err)

	_, err = ValidateImageBySniff("", []byte(`<?xml version="1.0"?><svg></svg>`))
	assert.Error(t, err)
}

func TestFromMultipart(t *testing.T) {
	data := encodeTestImage(t, imaging.PNG)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", "drain.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	img, err := FromMultipart(form.File["image"][0])
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, "drain.png", img.Filename)

	_, err = FromMultipart(nil)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
