package application

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-console/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-console/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo    ports.Repository
	objects ports.ObjectStore
}

func NewService(repo ports.Repository, objects ports.ObjectStore) *Service {
	return &Service{repo: repo, objects: objects}
}

// CreateProduct runs the whole creation flow in-process: reserve, upload each image in order, persist.
func (s *Service) CreateProduct(ctx context.Context, input types.CreateProductInput) (*domain.Product, error) {
	id, err := s.ReserveProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	refs := make([]domain.ImageRef, 0, len(input.Images))
	for _, upload := range input.Images {
		ref, err := s.UploadProductImage(ctx, id, upload)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return s.PersistProduct(ctx, types.PersistProductInput{ID: id, Draft: input.Draft, Images: refs})
}

// ReserveProduct checks the draft and its images before anything is uploaded.
func (s *Service) ReserveProduct(ctx context.Context, input types.CreateProductInput) (int64, error) {
	product, err := buildProduct(0, input.Draft)
	if err != nil {
		return 0, mapError(err)
	}
	for _, upload := range input.Images {
		if err := domain.CheckImageSize(upload.Size()); err != nil {
			return 0, err
		}
		path, err := domain.ImagePath(0, upload.Filename)
		if err != nil {
			return 0, mapError(err)
		}
		if err := product.AppendImage(domain.ImageRef{Path: path}); err != nil {
			return 0, mapError(err)
		}
	}
	if err := product.ValidateForCreation(); err != nil {
		return 0, mapError(err)
	}
	if err := s.ensureSKUAvailable(ctx, product.SKU, 0); err != nil {
		return 0, err
	}
	return s.repo.NextID(ctx)
}

// UploadProductImage stores one file under the product's storage prefix.
func (s *Service) UploadProductImage(ctx context.Context, productID int64, upload types.Upload) (domain.ImageRef, error) {
	if err := domain.CheckImageSize(upload.Size()); err != nil {
		return domain.ImageRef{}, err
	}
	path, err := domain.ImagePath(productID, upload.Filename)
	if err != nil {
		return domain.ImageRef{}, mapError(err)
	}
	return s.putImage(ctx, path, upload)
}

// PersistProduct stores a reserved product together with its uploaded images.
func (s *Service) PersistProduct(ctx context.Context, input types.PersistProductInput) (*domain.Product, error) {
	product, err := buildProduct(input.ID, input.Draft)
	if err != nil {
		return nil, mapError(err)
	}
	for _, ref := range input.Images {
		if err := product.AppendImage(ref); err != nil {
			return nil, mapError(err)
		}
	}
	if err := product.ValidateForCreation(); err != nil {
		return nil, mapError(err)
	}
	if err := s.ensureSKUAvailable(ctx, product.SKU, product.ID); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, product)
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, patch types.ProductPatch) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return product, nil
	}
	skuChanged := patch.SKU != nil && *patch.SKU != product.SKU
	if err := applyPatch(product, patch); err != nil {
		return nil, mapError(err)
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	if skuChanged {
		if err := s.ensureSKUAvailable(ctx, product.SKU, product.ID); err != nil {
			return nil, err
		}
	}
	return s.repo.Save(ctx, product)
}

// DeleteProduct removes the stored images first, then the product. Orders keep their snapshots.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	for _, image := range product.Images {
		if err := s.deleteObject(ctx, image.Path); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) AddCategory(ctx context.Context, id int64, category string) (*domain.Product, error) {
	return s.mutate(ctx, id, func(p *domain.Product) (bool, error) {
		return true, p.AddCategory(category)
	})
}

// RemoveCategory is idempotent: removing an absent category returns the product unchanged.
func (s *Service) RemoveCategory(ctx context.Context, id int64, category string) (*domain.Product, error) {
	return s.mutate(ctx, id, func(p *domain.Product) (bool, error) {
		return p.RemoveCategory(category), nil
	})
}

func (s *Service) AddIngredient(ctx context.Context, id int64, ingredient string) (*domain.Product, error) {
	return s.mutate(ctx, id, func(p *domain.Product) (bool, error) {
		return true, p.AddIngredient(ingredient)
	})
}

func (s *Service) RemoveIngredient(ctx context.Context, id int64, index int) (*domain.Product, error) {
	return s.mutate(ctx, id, func(p *domain.Product) (bool, error) {
		return true, p.RemoveIngredient(index)
	})
}

func (s *Service) Asset(ctx context.Context, path string) (*ports.Object, error) {
	if s.objects == nil {
		return nil, errors.New("object store not configured")
	}
	return s.objects.Get(ctx, path)
}

// mutate loads a product, applies fn and saves when fn reports a change.
func (s *Service) mutate(ctx context.Context, id int64, fn func(*domain.Product) (bool, error)) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	changed, err := fn(product)
	if err != nil {
		return nil, mapError(err)
	}
	if !changed {
		return product, nil
	}
	return s.repo.Save(ctx, product)
}

func (s *Service) ensureSKUAvailable(ctx context.Context, sku string, ownerID int64) error {
	existing, err := s.repo.GetBySKU(ctx, sku)
	if errors.Is(err, ports.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != ownerID {
		return ports.ErrDuplicateSKU
	}
	return nil
}

func buildProduct(id int64, draft types.ProductDraft) (*domain.Product, error) {
	product, err := domain.NewProduct(id, draft.SKU, draft.Name, draft.Price, draft.Stock, draft.TaxClass)
	if err != nil {
		return nil, err
	}
	if err := product.ReplaceIngredients(draft.Ingredients); err != nil {
		return nil, err
	}
	if err := product.ReplaceCategories(draft.Categories); err != nil {
		return nil, err
	}
	if err := product.Describe(draft.Description); err != nil {
		return nil, err
	}
	return product, nil
}

func applyPatch(product *domain.Product, patch types.ProductPatch) error {
	if patch.SKU != nil {
		if err := product.ChangeSKU(*patch.SKU); err != nil {
			return err
		}
	}
	if patch.Name != nil {
		if err := product.Rename(*patch.Name); err != nil {
			return err
		}
	}
	if patch.Price != nil {
		if err := product.Reprice(*patch.Price); err != nil {
			return err
		}
	}
	if patch.Stock != nil {
		if err := product.Restock(*patch.Stock); err != nil {
			return err
		}
	}
	if patch.TaxClass != nil {
		if err := product.ChangeTaxClass(*patch.TaxClass); err != nil {
			return err
		}
	}
	if patch.Ingredients != nil {
		if err := product.ReplaceIngredients(*patch.Ingredients); err != nil {
			return err
		}
	}
	if patch.Categories != nil {
		if err := product.ReplaceCategories(*patch.Categories); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		if err := product.Describe(*patch.Description); err != nil {
			return err
		}
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
