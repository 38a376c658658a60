package services

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

var thumbnailExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

type Thumbnail struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeThumbnail accepts a data URL (data:image/png;base64,...) or bare
// base64 and identifies the image from its bytes, not the declared type.
func DecodeThumbnail(raw string, maxBytes int64) (*Thumbnail, error) {
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return nil, invalid("thumbnail", "thumbnail is required")
	}

	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, invalid("thumbnail", "thumbnail must be a base64 data URL")
		}
		payload = payload[comma+1:]
	}
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)

	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
		return nil, invalid("thumbnail", fmt.Sprintf("thumbnail exceeds %d bytes", maxBytes))
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, invalid("thumbnail", "thumbnail is not valid base64")
	}
	if len(data) == 0 {
		return nil, invalid("thumbnail", "thumbnail is empty")
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, invalid("thumbnail", fmt.Sprintf("thumbnail exceeds %d bytes", maxBytes))
	}

	contentType := http.DetectContentType(data)
	ext, ok := thumbnailExtensions[contentType]
	if !ok {
		return nil, invalid("thumbnail", "thumbnail must be a PNG, JPEG or WebP image")
	}

	return &Thumbnail{Data: data, ContentType: contentType, Extension: ext}, nil
}
