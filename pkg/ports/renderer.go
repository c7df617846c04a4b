package ports

import (
	"image"
	"path/filepath"
	"strings"
)

// Renderer abstracts image processing operations.
type Renderer interface {
	// DecodeImage decodes image data into an image.Image.
	DecodeImage(data []byte, format ImageFormat) (image.Image, error)

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage resizes an image to the specified dimensions.
	ResizeImage(img image.Image, width, height int) image.Image

	// Annotate returns a copy of img with label drawn along its bottom edge.
	Annotate(img image.Image, label string) image.Image
}

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
	// FormatAuto sniffs the format when decoding.
	FormatAuto
)

// Ext returns the file extension used for the format.
func (f ImageFormat) Ext() string {
	if f == FormatPNG {
		return ".png"
	}
	return ".jpg"
}

// ParseImageFormat maps "png" and "jpeg"/"jpg" to a format. Anything else is JPEG.
func ParseImageFormat(s string) ImageFormat {
	switch strings.ToLower(s) {
	case "png":
		return FormatPNG
	default:
		return FormatJPEG
	}
}

// FormatFromPath guesses the format of an image file from its extension.
func FormatFromPath(path string) ImageFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG
	case ".jpg", ".jpeg":
		return FormatJPEG
	default:
		return FormatAuto
	}
}

// IsImageFile reports whether name has an extension the pipeline stages as images.
func IsImageFile(name string) bool {
	return FormatFromPath(name) != FormatAuto
}
