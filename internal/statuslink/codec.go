// Package statuslink encodes failure text into the opaque token carried
// by a commit status's target_url, so the status page can recover it
// without server-side storage.
package statuslink

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/golang/snappy"
)

// EncodingError reports a token that failed to decode, either because the
// base64/snappy framing was malformed or because decompression produced
// bytes that are not valid UTF-8.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("status link: %s", e.Reason)
}

// Encode snappy-compresses s and returns it as URL-safe, unpadded base64.
func Encode(s string) string {
	compressed := snappy.Encode(nil, []byte(s))
	return base64.RawURLEncoding.EncodeToString(compressed)
}

// Decode inverts Encode.
func Decode(s string) (string, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", &EncodingError{Reason: "malformed base64: " + err.Error()}
	}
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return "", &EncodingError{Reason: "malformed snappy frame: " + err.Error()}
	}
	if !utf8.Valid(raw) {
		return "", &EncodingError{Reason: "decompressed data is not valid UTF-8"}
	}
	return string(raw), nil
}
