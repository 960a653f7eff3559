package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/Apurer/storefront-console/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-console/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-console/internal/shared/faults"
)

// AddImages processes uploads strictly one after another. Each linked image is persisted before
// the next file is looked at, so a failure leaves earlier images attached and reported.
func (s *Service) AddImages(ctx context.Context, id int64, uploads []types.Upload) (*types.AddImagesResult, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := &types.AddImagesResult{Product: product}
	for _, upload := range uploads {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := product.CanAddImage(); err != nil {
			return result, err
		}
		if err := domain.CheckImageSize(upload.Size()); err != nil {
			return result, err
		}
		path, err := domain.ImagePath(product.ID, upload.Filename)
		if err != nil {
			return result, mapError(err)
		}
		if _, _, err := product.FindImage(path); err == nil {
			return result, mapError(domain.ErrDuplicateImage)
		}
		ref, err := s.putImage(ctx, path, upload)
		if err != nil {
			return result, err
		}
		next := product.Clone()
		if err := next.AppendImage(ref); err != nil {
			return result, mapError(err)
		}
		saved, err := s.repo.Save(ctx, next)
		if err != nil {
			return result, err
		}
		product = saved
		result.Product = saved
		result.Added = append(result.Added, ref)
	}
	return result, nil
}

func (s *Service) ReorderImage(ctx context.Context, id int64, from, to int) (*domain.Product, error) {
	return s.mutate(ctx, id, func(p *domain.Product) (bool, error) {
		return from != to, p.MoveImage(from, to)
	})
}

// RemoveImage deletes the stored object first and only then unlinks it from the product.
func (s *Service) RemoveImage(ctx context.Context, id int64, ref string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	index, image, err := product.FindImage(ref)
	if err != nil {
		return nil, err
	}
	if err := s.deleteObject(ctx, image.Path); err != nil {
		return nil, err
	}
	if err := product.RemoveImageAt(index); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, product)
}

func (s *Service) putImage(ctx context.Context, path string, upload types.Upload) (domain.ImageRef, error) {
	if s.objects == nil {
		return domain.ImageRef{}, faults.Storage(errors.New("object store not configured"))
	}
	contentType := upload.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(upload.Data)
	}
	url, err := s.objects.Put(ctx, path, contentType, upload.Data)
	if err != nil {
		return domain.ImageRef{}, faults.Storage(err)
	}
	return domain.ImageRef{Path: path, URL: url}, nil
}

// deleteObject treats an already missing object as deleted.
func (s *Service) deleteObject(ctx context.Context, path string) error {
	if s.objects == nil {
		return faults.Storage(errors.New("object store not configured"))
	}
	if err := s.objects.Delete(ctx, path); err != nil && !errors.Is(err, ports.ErrObjectNotFound) {
		return faults.Storage(err)
	}
	return nil
}
