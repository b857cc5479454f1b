package storage

import (
	"encoding/base64"
	"testing"
)

func TestDecodeDataURL(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G'}
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	contentType, got, err := DecodeDataURL(url)
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	if contentType != "image/png" {
		t.Errorf("content type = %q, want image/png", contentType)
	}
	if string(got) != string(payload) {
		t.Errorf("payload mismatch")
	}
}

func TestDecodeDataURLRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"no scheme":     "image/png;base64,AAAA",
		"no comma":      "data:image/png;base64",
		"not base64":    "data:image/png,AAAA",
		"bad payload":   "data:image/png;base64,!!!!",
	}
	for name, url := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := DecodeDataURL(url); err == nil {
				t.Errorf("expected error for %q", url)
			}
		})
	}
}
