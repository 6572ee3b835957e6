package statuslink

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"Failed has-description (pull request body must not be empty)",
		"a\nb\nc",
		"unicode: 日本語 emoji: 🎉",
	}
	for _, text := range cases {
		t.Run(text, func(t *testing.T) {
			encoded := Encode(text)
			if strings.ContainsAny(encoded, "+/=") {
				t.Errorf("Encode(%q) = %q, contains non-URL-safe characters", text, encoded)
			}
			decoded, err := Decode(encoded)
			if err != nil {
				t.Fatalf("Decode(Encode(%q)) error: %v", text, err)
			}
			if decoded != text {
				t.Errorf("Decode(Encode(%q)) = %q, want %q", text, decoded, text)
			}
		})
	}
}

func TestRoundTripRandomUTF8(t *testing.T) {
	samples := []string{
		"line one\nline two\nline three",
		strings.Repeat("x", 4096),
	}
	for _, s := range samples {
		if !utf8.ValidString(s) {
			t.Fatalf("test fixture is not valid UTF-8")
		}
		decoded, err := Decode(Encode(s))
		if err != nil {
			t.Fatalf("round trip error: %v", err)
		}
		if decoded != s {
			t.Fatalf("round trip mismatch for %d-byte input", len(s))
		}
	}
}

func TestDecodeMalformedBase64(t *testing.T) {
	_, err := Decode("not base64!!!")
	if err == nil {
		t.Fatal("expected EncodingError, got nil")
	}
	if _, ok := err.(*EncodingError); !ok {
		t.Fatalf("error type = %T, want *EncodingError", err)
	}
}

func TestDecodeMalformedSnappyFrame(t *testing.T) {
	// Valid base64, but not a valid snappy frame.
	garbage := "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	_, err := Decode(garbage)
	if err == nil {
		t.Fatal("expected EncodingError, got nil")
	}
	if _, ok := err.(*EncodingError); !ok {
		t.Fatalf("error type = %T, want *EncodingError", err)
	}
}
