package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func refs(n int) []ImageRef {
	list := make([]ImageRef, 0, n)
	for i := 0; i < n; i++ {
		path := fmt.Sprintf("products/1/%d.png", i)
		list = append(list, ImageRef{Path: path, URL: "http://cdn/assets/" + path})
	}
	return list
}

func TestAppendImage_CapacityIsFour(t *testing.T) {
	p := &Product{ID: 1}
	for _, ref := range refs(MaxImages) {
		require.NoError(t, p.AppendImage(ref))
	}
	require.ErrorIs(t, p.AppendImage(ImageRef{Path: "products/1/extra.png"}), ErrTooManyImages)
	require.Len(t, p.Images, MaxImages)
}

func TestAppendImage_RejectsSamePath(t *testing.T) {
	p := &Product{ID: 1}
	require.NoError(t, p.AppendImage(ImageRef{Path: "products/1/a.png"}))
	require.ErrorIs(t, p.AppendImage(ImageRef{Path: "products/1/a.png"}), ErrDuplicateImage)
}

func TestCheckImageSize_Boundary(t *testing.T) {
	require.NoError(t, CheckImageSize(204800))
	require.ErrorIs(t, CheckImageSize(204801), ErrImageTooLarge)
}

func TestMoveImage(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []int
	}{
		{name: "to front", from: 2, to: 0, want: []int{2, 0, 1, 3}},
		{name: "to back", from: 0, to: 3, want: []int{1, 2, 3, 0}},
		{name: "same index", from: 1, to: 1, want: []int{0, 1, 2, 3}},
		{name: "adjacent", from: 1, to: 2, want: []int{0, 2, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := refs(4)
			p := &Product{Images: append([]ImageRef(nil), original...)}
			require.NoError(t, p.MoveImage(tt.from, tt.to))
			for i, idx := range tt.want {
				require.Equal(t, original[idx], p.Images[i])
			}
		})
	}
}

func TestMoveImage_OutOfRange(t *testing.T) {
	p := &Product{Images: refs(2)}
	require.ErrorIs(t, p.MoveImage(0, 2), ErrIndexOutOfRange)
	require.ErrorIs(t, p.MoveImage(-1, 0), ErrIndexOutOfRange)
	require.Equal(t, refs(2), p.Images)
}

func TestImagePath(t *testing.T) {
	path, err := ImagePath(7, "front.png")
	require.NoError(t, err)
	require.Equal(t, "products/7/front.png", path)

	path, err = ImagePath(7, "../../etc/passwd")
	require.NoError(t, err)
	require.Equal(t, "products/7/passwd", path)

	_, err = ImagePath(7, " ")
	require.ErrorIs(t, err, ErrEmptyFilename)
}

func TestFindAndRemoveImage(t *testing.T) {
	p := &Product{Images: refs(3)}
	idx, ref, err := p.FindImage("http://cdn/assets/products/1/1.png")
	require.NoError(t, err)
	require.Equal(t, 1, idx)
	require.Equal(t, "products/1/1.png", ref.Path)

	require.NoError(t, p.RemoveImageAt(idx))
	_, _, err = p.FindImage(ref.URL)
	require.ErrorIs(t, err, ErrImageNotFound)
}
