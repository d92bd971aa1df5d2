package sniffer

import (
	"errors"
	"testing"
)

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		want ImageType
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, TypeJPEG},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, TypePNG},
		{"gif87a", []byte("GIF87a......"), TypeGIF},
		{"gif89a", []byte("GIF89a......"), TypeGIF},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), TypeWEBP},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectHead(tc.head)
			if err != nil {
				t.Fatalf("DetectHead: %v", err)
			}
			if got.Type != tc.want {
				t.Fatalf("Type = %q, want %q", got.Type, tc.want)
			}
			if got.MIME == "" {
				t.Fatal("MIME must be set")
			}
		})
	}
}

func TestDetectHeadRejectsUnknown(t *testing.T) {
	for _, head := range [][]byte{
		nil,
		[]byte("<svg xmlns=\"http://www.w3.org/2000/svg\"/>"),
		[]byte("plain text"),
		{0x00, 0x01, 0x02},
	} {
		if _, err := DetectHead(head); !errors.Is(err, ErrUnsupportedImage) {
			t.Fatalf("DetectHead(%q) err = %v, want ErrUnsupportedImage", head, err)
		}
	}
}
