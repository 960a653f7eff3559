package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/storefront-console/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-console/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/storefront-console/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core catalog service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateProduct(ctx context.Context, input types.CreateProductInput) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct",
		trace.WithAttributes(attribute.String("product.sku", input.Draft.SKU), attribute.Int("product.images", len(input.Images))))
	defer span.End()

	s.logInfo(ctx, "creating product", slog.String("product.sku", input.Draft.SKU))
	result, err := s.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.sku", input.Draft.SKU))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "product created", slog.Int64("product.id", result.ID), slog.String("product.sku", result.SKU))
	return result, nil
}

func (s *Service) ReserveProduct(ctx context.Context, input types.CreateProductInput) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ReserveProduct", trace.WithAttributes(attribute.String("product.sku", input.Draft.SKU)))
	defer span.End()

	id, err := s.inner.ReserveProduct(ctx, input)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to reserve product", slog.String("product.sku", input.Draft.SKU))
	}
	span.SetAttributes(attribute.Int64("product.id", id))
	s.logInfo(ctx, "product reserved", slog.Int64("product.id", id))
	return id, nil
}

func (s *Service) UploadProductImage(ctx context.Context, productID int64, upload types.Upload) (domain.ImageRef, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UploadProductImage",
		trace.WithAttributes(attribute.Int64("product.id", productID), attribute.String("image.filename", upload.Filename), attribute.Int("image.bytes", upload.Size())))
	defer span.End()

	ref, err := s.inner.UploadProductImage(ctx, productID, upload)
	if err != nil {
		s.metrics.recordImageRejected(ctx)
		return domain.ImageRef{}, s.handleError(ctx, span, err, "failed to upload product image",
			slog.Int64("product.id", productID), slog.String("image.filename", upload.Filename))
	}
	s.metrics.recordImageStored(ctx, upload.Size())
	s.logInfo(ctx, "product image stored", slog.Int64("product.id", productID), slog.String("image.path", ref.Path))
	return ref, nil
}

func (s *Service) PersistProduct(ctx context.Context, input types.PersistProductInput) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.PersistProduct", trace.WithAttributes(attribute.Int64("product.id", input.ID)))
	defer span.End()

	result, err := s.inner.PersistProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to persist product", slog.Int64("product.id", input.ID))
	}
	s.logInfo(ctx, "product persisted", slog.Int64("product.id", result.ID))
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, patch types.ProductPatch) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating product", slog.Int64("product.id", id))
	result, err := s.inner.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product updated", slog.Int64("product.id", id))
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting product", slog.Int64("product.id", id))
	if err := s.inner.DeleteProduct(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "product deleted", slog.Int64("product.id", id))
	return nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.Int64("product.id", id))
	}
	return result, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()

	result, err := s.inner.ListProducts(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
	return result, nil
}

func (s *Service) AddCategory(ctx context.Context, id int64, category string) (*domain.Product, error) {
	return s.traceProduct(ctx, "CatalogService.AddCategory", id, "failed to add category", func(ctx context.Context) (*domain.Product, error) {
		return s.inner.AddCategory(ctx, id, category)
	}, attribute.String("product.category", category))
}

func (s *Service) RemoveCategory(ctx context.Context, id int64, category string) (*domain.Product, error) {
	return s.traceProduct(ctx, "CatalogService.RemoveCategory", id, "failed to remove category", func(ctx context.Context) (*domain.Product, error) {
		return s.inner.RemoveCategory(ctx, id, category)
	}, attribute.String("product.category", category))
}

func (s *Service) AddIngredient(ctx context.Context, id int64, ingredient string) (*domain.Product, error) {
	return s.traceProduct(ctx, "CatalogService.AddIngredient", id, "failed to add ingredient", func(ctx context.Context) (*domain.Product, error) {
		return s.inner.AddIngredient(ctx, id, ingredient)
	})
}

func (s *Service) RemoveIngredient(ctx context.Context, id int64, index int) (*domain.Product, error) {
	return s.traceProduct(ctx, "CatalogService.RemoveIngredient", id, "failed to remove ingredient", func(ctx context.Context) (*domain.Product, error) {
		return s.inner.RemoveIngredient(ctx, id, index)
	}, attribute.Int("ingredient.index", index))
}

func (s *Service) AddImages(ctx context.Context, id int64, uploads []types.Upload) (*types.AddImagesResult, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.AddImages",
		trace.WithAttributes(attribute.Int64("product.id", id), attribute.Int("image.count", len(uploads))))
	defer span.End()

	s.logInfo(ctx, "adding product images", slog.Int64("product.id", id), slog.Int("image.count", len(uploads)))
	result, err := s.inner.AddImages(ctx, id, uploads)
	added := 0
	if result != nil {
		added = len(result.Added)
		for _, ref := range result.Added {
			s.metrics.recordImageStored(ctx, 0)
			s.logInfo(ctx, "product image linked", slog.Int64("product.id", id), slog.String("image.path", ref.Path))
		}
	}
	span.SetAttributes(attribute.Int("image.added", added))
	if err != nil {
		s.metrics.recordImageRejected(ctx)
		return result, s.handleError(ctx, span, err, "product image batch stopped",
			slog.Int64("product.id", id), slog.Int("image.added", added))
	}
	return result, nil
}

func (s *Service) ReorderImage(ctx context.Context, id int64, from, to int) (*domain.Product, error) {
	return s.traceProduct(ctx, "CatalogService.ReorderImage", id, "failed to reorder image", func(ctx context.Context) (*domain.Product, error) {
		return s.inner.ReorderImage(ctx, id, from, to)
	}, attribute.Int("image.from", from), attribute.Int("image.to", to))
}

func (s *Service) RemoveImage(ctx context.Context, id int64, ref string) (*domain.Product, error) {
	return s.traceProduct(ctx, "CatalogService.RemoveImage", id, "failed to remove image", func(ctx context.Context) (*domain.Product, error) {
		return s.inner.RemoveImage(ctx, id, ref)
	}, attribute.String("image.ref", ref))
}

func (s *Service) Asset(ctx context.Context, path string) (*ports.Object, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Asset", trace.WithAttributes(attribute.String("asset.path", path)))
	defer span.End()

	object, err := s.inner.Asset(ctx, path)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return object, nil
}

func (s *Service) traceProduct(ctx context.Context, spanName string, id int64, failMsg string, fn func(context.Context) (*domain.Product, error), attrs ...attribute.KeyValue) (*domain.Product, error) {
	attrs = append(attrs, attribute.Int64("product.id", id))
	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(attrs...))
	defer span.End()

	result, err := fn(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, failMsg, slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product changed", slog.Int64("product.id", id), slog.String("operation", spanName))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	productsCreated metric.Int64Counter
	productsDeleted metric.Int64Counter
	imagesStored    metric.Int64Counter
	imagesRejected  metric.Int64Counter
	imageBytes      metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	productsCreated, _ := m.Int64Counter("catalog.service.products_created", metric.WithDescription("Number of products created"))
	productsDeleted, _ := m.Int64Counter("catalog.service.products_deleted", metric.WithDescription("Number of products deleted"))
	imagesStored, _ := m.Int64Counter("catalog.service.images_stored", metric.WithDescription("Number of product images stored"))
	imagesRejected, _ := m.Int64Counter("catalog.service.images_rejected", metric.WithDescription("Number of image uploads that failed or were refused"))
	imageBytes, _ := m.Int64Counter("catalog.service.image_bytes", metric.WithDescription("Bytes of product images stored"), metric.WithUnit("By"))
	return serviceMetrics{
		productsCreated: productsCreated,
		productsDeleted: productsDeleted,
		imagesStored:    imagesStored,
		imagesRejected:  imagesRejected,
		imageBytes:      imageBytes,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.productsCreated != nil {
		m.productsCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.productsDeleted != nil {
		m.productsDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordImageStored(ctx context.Context, size int) {
	if m.imagesStored != nil {
		m.imagesStored.Add(ctx, 1)
	}
	if m.imageBytes != nil && size > 0 {
		m.imageBytes.Add(ctx, int64(size))
	}
}

func (m serviceMetrics) recordImageRejected(ctx context.Context) {
	if m.imagesRejected != nil {
		m.imagesRejected.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
