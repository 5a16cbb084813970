// Package imagehost uploads and removes hosted images.
package imagehost

import (
	"context"
	"errors"
)

var (
	ErrUpload = errors.New("image upload failed")
	ErrDelete = errors.New("image delete failed")
)

// Transformation is applied to every upload: 500px high, cropped to fill.
const Transformation = "c_fill,h_500"

type File struct {
	Name string
	Data []byte
}

func (f *File) Empty() bool {
	return f == nil || len(f.Data) == 0
}

type Image struct {
	URL      string
	PublicID string
}

type Gateway interface {
	Upload(ctx context.Context, f *File) (Image, error)
	// Delete is a no-op for an empty publicID.
	Delete(ctx context.Context, publicID string) error
}
