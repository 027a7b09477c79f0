// Package dataurl encodes and decodes base64 data URLs.
package dataurl

import (
	"encoding/base64"
	"strings"

	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

// Encode returns data:<mime>;base64,<payload>.
func Encode(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsDataURL reports whether s uses the data: scheme.
func IsDataURL(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "data:")
}

// Decode parses a base64 data URL and returns its media type and payload.
// Parameters other than base64 are dropped from the media type.
func Decode(s string) (string, []byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return "", nil, apperrors.NewValidationError("data_url", "missing data: scheme", nil)
	}
	header, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return "", nil, apperrors.NewValidationError("data_url", "missing payload separator", nil)
	}

	params := strings.Split(header, ";")
	mime := strings.TrimSpace(params[0])
	encoded := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			encoded = true
		}
	}
	if !encoded {
		return "", nil, apperrors.NewValidationError("data_url", "only base64 data URLs are supported", nil)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, apperrors.NewValidationError("data_url", "invalid base64 payload", err)
	}
	return mime, data, nil
}
