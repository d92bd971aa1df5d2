package sniffer

import (
	"bytes"
	"errors"
)

// Uploads are restricted to raster image formats a browser can render
// inline; anything else is rejected before it reaches the object store.

type ImageType string

const (
	TypeJPEG ImageType = "jpeg"
	TypePNG  ImageType = "png"
	TypeGIF  ImageType = "gif"
	TypeWEBP ImageType = "webp"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

type Result struct {
	Type ImageType
	MIME string
}

// DetectHead sniffs the leading bytes of an upload. 512 bytes is more than
// enough for every supported magic number.
func DetectHead(head []byte) (Result, error) {
	switch {
	case isJPEG(head):
		return Result{Type: TypeJPEG, MIME: "image/jpeg"}, nil
	case isPNG(head):
		return Result{Type: TypePNG, MIME: "image/png"}, nil
	case isGIF(head):
		return Result{Type: TypeGIF, MIME: "image/gif"}, nil
	case isWEBP(head):
		return Result{Type: TypeWEBP, MIME: "image/webp"}, nil
	}
	return Result{}, ErrUnsupportedImage
}

func isJPEG(head []byte) bool {
	return len(head) > 3 && head[0] == 0xff && head[1] == 0xd8 && head[2] == 0xff
}

func isPNG(head []byte) bool {
	magic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return bytes.HasPrefix(head, magic)
}

func isGIF(head []byte) bool {
	return bytes.HasPrefix(head, []byte("GIF87a")) || bytes.HasPrefix(head, []byte("GIF89a"))
}

func isWEBP(head []byte) bool {
	return len(head) >= 12 &&
		bytes.Equal(head[:4], []byte("RIFF")) &&
		bytes.Equal(head[8:12], []byte("WEBP"))
}
