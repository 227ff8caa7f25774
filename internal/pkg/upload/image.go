package upload

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fixmyward/fixmyward/internal/pkg/apperror"
	"github.com/gofiber/fiber/v2/log"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"
)

// MaxImageBytes caps a decoded photo.
const MaxImageBytes = 25 << 20

// Image is a validated photo attached to a submission.
type Image struct {
	Data     []byte
	MIMEType string
	Filename string
	Width    int
	Height   int
	Metadata Metadata
}

// Metadata holds what the photo's EXIF block says about where and when it was taken.
type Metadata struct {
	TakenAt   *time.Time
	Latitude  *float64
	Longitude *float64
}

// FromDataURI decodes a "data:<mime>;base64,<payload>" string. A bare base64 payload is accepted too.
func FromDataURI(uri string) (*Image, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, apperror.Validation("an image is required")
	}

	payload := uri
	if strings.HasPrefix(uri, "data:") {
		comma := strings.IndexByte(uri, ',')
		if comma < 0 {
			return nil, apperror.Validation("malformed image data URI")
		}
		header := uri[len("data:"):comma]
		if !strings.HasSuffix(header, ";base64") {
			return nil, apperror.Validation("image data URI must be base64 encoded")
		}
		payload = uri[comma+1:]
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
		return nil, apperror.Validation("the image is too large")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperror.Validation("the image is not valid base64")
	}
	return FromBytes(data, "")
}

// FromMultipart reads an uploaded form file.
func FromMultipart(fh *multipart.FileHeader) (*Image, error) {
	if fh == nil || fh.Size == 0 {
		return nil, apperror.Validation("an image is required")
	}
	if fh.Size > MaxImageBytes {
		return nil, apperror.Validation("the image is too large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Internal("failed to open uploaded image", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return nil, apperror.Internal("failed to read uploaded image", err)
	}
	return FromBytes(data, fh.Filename)
}

// FromBytes validates raw photo bytes and inspects them.
func FromBytes(data []byte, filename string) (*Image, error) {
	if len(data) == 0 {
		return nil, apperror.Validation("an image is required")
	}
	if len(data) > MaxImageBytes {
		return nil, apperror.Validation("the image is too large")
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	mime, err := ValidateImageBySniff(filename, head)
	if err != nil {
		return nil, err
	}

	img := &Image{Data: data, MIMEType: mime, Filename: filename}
	if err := Inspect(img); err != nil {
		return nil, err
	}
	return img, nil
}

// Inspect decodes the photo to confirm it is readable, records its dimensions and reads EXIF.
func Inspect(img *Image) error {
	decoded, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		return apperror.Validation(fmt.Sprintf("the image could not be decoded: %v", err))
	}
	b := decoded.Bounds()
	img.Width, img.Height = b.Dx(), b.Dy()
	if img.Width == 0 || img.Height == 0 {
		return apperror.Validation("the image is empty")
	}

	img.Metadata = ExtractMetadata(img.Data)
	return nil
}

// ExtractMetadata reads capture time and GPS position. Photos without EXIF yield empty metadata.
func ExtractMetadata(data []byte) Metadata {
	var meta Metadata

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debugf("[Upload] No EXIF data found: %v", err)
		return meta
	}

	if dt, err := x.DateTime(); err == nil {
		meta.TakenAt = &dt
	}
	if lat, long, err := x.LatLong(); err == nil {
		meta.Latitude = &lat
		meta.Longitude = &long
	}
	return meta
}

// Extension returns the canonical file extension for the image's type.
func (i *Image) Extension() string {
	return ExtensionForMIME(i.MIMEType)
}

// ExtensionForMIME maps an allowed image type to a file extension.
func ExtensionForMIME(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	}
	return ".jpg"
}
