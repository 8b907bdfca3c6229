package loader

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp"
)

// loaderBackend decodes raw file bytes into an image.
// Concrete implementations handle format detection and decoding.
type loaderBackend interface {
	// Decode sniffs and decodes data.
	//
	// Parameters:
	//   - data: the raw file contents
	//
	// Returns:
	//   - image.Image: the decoded image
	//   - string: the detected format extension (e.g. "jpg", "webp")
	//   - error: ErrNotImage if data is not a supported image, or a decode error
	Decode(data []byte) (image.Image, string, error)
}

// imageLoaderBackend sniffs the file header with filetype before handing supported formats
// to the image package decoders registered above.
type imageLoaderBackend struct{}

var _ loaderBackend = &imageLoaderBackend{}

func newImageLoaderBackend() loaderBackend {
	return &imageLoaderBackend{}
}

// supportedFormats lists the sniffed extensions the registered decoders can read.
var supportedFormats = map[string]bool{
	"jpg":  true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// filetypeMatch returns the extension of the image format data starts with.
// Only the first 261 bytes are inspected.
func filetypeMatch(data []byte) (string, error) {
	if !filetype.IsImage(data) {
		return "", ErrNotImage
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "", ErrNotImage
	}
	return kind.Extension, nil
}

func (b *imageLoaderBackend) Decode(data []byte) (image.Image, string, error) {
	ext, err := filetypeMatch(data)
	if err != nil {
		return nil, "", err
	}
	if !supportedFormats[ext] {
		return nil, ext, fmt.Errorf("%w: unsupported format %s", ErrNotImage, ext)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ext, fmt.Errorf("decode %s: %w", ext, err)
	}
	return img, ext, nil
}
