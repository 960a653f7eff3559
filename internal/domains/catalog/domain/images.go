package domain

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

const (
	// MaxImages bounds the image list of a product.
	MaxImages = 4
	// MaxImageBytes is the largest accepted upload; a file of exactly this size is accepted.
	MaxImageBytes = 200 * 1024
)

var (
	ErrTooManyImages   = fmt.Errorf("a product may hold at most %d images", MaxImages)
	ErrImageTooLarge   = fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
	ErrIndexOutOfRange = errors.New("image index out of range")
	ErrImageNotFound   = errors.New("image reference not found on product")
	ErrDuplicateImage  = errors.New("product already has an image stored at this path")
	ErrEmptyFilename   = errors.New("image filename is required")
)

// ImageRef links a product to a stored object. URL is the public reference clients use.
type ImageRef struct {
	Path string
	URL  string
}

// ImagePath derives the storage path for a file attached to a product.
func ImagePath(productID int64, filename string) (string, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "", ErrEmptyFilename
	}
	return fmt.Sprintf("products/%d/%s", productID, name), nil
}

// CheckImageSize enforces the per-file upload limit.
func CheckImageSize(size int) error {
	if size > MaxImageBytes {
		return ErrImageTooLarge
	}
	return nil
}

// CanAddImage reports whether another image fits.
func (p *Product) CanAddImage() error {
	if len(p.Images) >= MaxImages {
		return ErrTooManyImages
	}
	return nil
}

// AppendImage links a stored object at the end of the list.
func (p *Product) AppendImage(ref ImageRef) error {
	if err := p.CanAddImage(); err != nil {
		return err
	}
	for _, existing := range p.Images {
		if existing.Path == ref.Path {
			return ErrDuplicateImage
		}
	}
	p.Images = append(p.Images, ref)
	return nil
}

// MoveImage removes the image at from and reinserts it at to.
func (p *Product) MoveImage(from, to int) error {
	n := len(p.Images)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}
	moved := p.Images[from]
	rest := append(p.Images[:from:from], p.Images[from+1:]...)
	reordered := make([]ImageRef, 0, n)
	reordered = append(reordered, rest[:to]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, rest[to:]...)
	p.Images = reordered
	return nil
}

// FindImage looks up an image by its public reference or storage path.
func (p *Product) FindImage(ref string) (int, ImageRef, error) {
	for i, image := range p.Images {
		if image.URL == ref || image.Path == ref {
			return i, image, nil
		}
	}
	return -1, ImageRef{}, ErrImageNotFound
}

// RemoveImageAt unlinks the image at index.
func (p *Product) RemoveImageAt(index int) error {
	if index < 0 || index >= len(p.Images) {
		return ErrIndexOutOfRange
	}
	p.Images = append(p.Images[:index:index], p.Images[index+1:]...)
	return nil
}

// PrimaryImage returns the image shown first, if any.
func (p *Product) PrimaryImage() (ImageRef, bool) {
	if len(p.Images) == 0 {
		return ImageRef{}, false
	}
	return p.Images[0], true
}
