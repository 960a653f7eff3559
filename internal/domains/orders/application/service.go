package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/storefront-console/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-console/internal/domains/orders/domain"
	"github.com/Apurer/storefront-console/internal/domains/orders/ports"
)

// DefaultIdempotencyTTL is how long an edit key replays when no TTL is configured.
const DefaultIdempotencyTTL = 24 * time.Hour

// Service orchestrates the order lifecycle use cases.
type Service struct {
	repo           ports.Repository
	customers      ports.CustomerDirectory
	catalog        ports.ProductCatalog
	idempotency    ports.IdempotencyStore
	idempotencyTTL time.Duration
	logger         *slog.Logger
	now            func() time.Time
	newInvoice     func(time.Time) string
}

// Option customises the service wiring.
type Option func(*Service)

// WithCustomerDirectory joins customer details into order views.
func WithCustomerDirectory(directory ports.CustomerDirectory) Option {
	return func(s *Service) { s.customers = directory }
}

// WithProductCatalog enables PlaceOrder.
func WithProductCatalog(catalog ports.ProductCatalog) Option {
	return func(s *Service) { s.catalog = catalog }
}

// WithIdempotencyStore enables keyed replays of UpdateOrder.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

// WithIdempotencyTTL bounds how long an edit key replays. Non-positive values keep the default.
func WithIdempotencyTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.idempotencyTTL = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithInvoiceNumbers overrides invoice number generation.
func WithInvoiceNumbers(next func(time.Time) string) Option {
	return func(s *Service) {
		if next != nil {
			s.newInvoice = next
		}
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		idempotencyTTL: DefaultIdempotencyTTL,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:            time.Now,
		newInvoice:     NewInvoiceNumber,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInvoiceNumber returns INV-<yyyymmdd>-<8 random hex chars>.
func NewInvoiceNumber(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("INV-%s-%s", at.UTC().Format("20060102"), strings.ToUpper(suffix))
}

// ListOrders returns every order joined with its customer, oldest first.
func (s *Service) ListOrders(ctx context.Context) ([]*types.OrderView, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortOrders(orders)
	refs := make([]string, 0, len(orders))
	for _, order := range orders {
		refs = append(refs, order.CustomerRef)
	}
	summaries, err := s.lookupCustomers(ctx, refs)
	if err != nil {
		return nil, err
	}
	views := make([]*types.OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, types.NewOrderView(order, summaries[order.CustomerRef]))
	}
	return views, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*types.OrderView, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, order)
}

// UpdateOrder applies an operator edit. Either every supplied field is applied or none is.
// A keyed edit reserves its key before the order is written, so a persisted edit always replays.
func (s *Service) UpdateOrder(ctx context.Context, input types.UpdateOrderInput) (*types.OrderView, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	keyed := key != "" && s.idempotency != nil
	var fingerprint string
	if keyed {
		var err error
		fingerprint, err = FingerprintUpdate(input)
		if err != nil {
			return nil, err
		}
		view, err := s.replay(ctx, input.ID, key, fingerprint)
		if err != nil || view != nil {
			return view, err
		}
	}

	current, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Patch.Empty() {
		return s.view(ctx, current)
	}
	updated := current.Clone()
	if err := applyPatch(updated, input.Patch); err != nil {
		return nil, mapError(err)
	}

	if keyed {
		now := s.now().UTC()
		_, err := s.idempotency.Reserve(ctx, ports.IdempotencyRecord{
			OrderID:     input.ID,
			Key:         key,
			RequestHash: fingerprint,
			CreatedAt:   now,
			ExpiresAt:   now.Add(s.idempotencyTTL),
		})
		if errors.Is(err, ports.ErrIdempotencyKeyTaken) {
			return s.GetOrder(ctx, input.ID)
		}
		if err != nil {
			return nil, err
		}
	}
	saved, err := s.repo.Save(ctx, updated)
	if err != nil {
		if keyed {
			s.release(ctx, input.ID, key)
		}
		return nil, mapError(err)
	}
	return s.view(ctx, saved)
}

// replay returns the current order when key already carried this edit. A nil view means the edit is new.
func (s *Service) replay(ctx context.Context, orderID int64, key, fingerprint string) (*types.OrderView, error) {
	record, err := s.idempotency.Get(ctx, orderID, key)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Expired(s.now()) {
		return nil, nil
	}
	if record.RequestHash != fingerprint {
		return nil, ports.ErrIdempotencyConflict
	}
	return s.GetOrder(ctx, orderID)
}

// release frees a reserved key whose edit was not written. A failure leaves the key to expire.
func (s *Service) release(ctx context.Context, orderID int64, key string) {
	if err := s.idempotency.Release(ctx, orderID, key); err != nil {
		s.logger.WarnContext(ctx, "idempotency key release failed",
			slog.Int64("order.id", orderID),
			slog.String("error", err.Error()),
		)
	}
}

// DeleteOrder removes the order. Product stock is left as is.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// PlaceOrder freezes the current catalog data of each requested product into a new pending order.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.OrderView, error) {
	if s.catalog == nil {
		return nil, errors.New("product catalog not configured")
	}
	if len(input.Lines) == 0 {
		return nil, mapError(domain.ErrEmptyLineItems)
	}
	customerRef := strings.TrimSpace(input.CustomerRef)
	if customerRef == "" {
		return nil, mapError(domain.ErrEmptyCustomer)
	}
	if s.customers != nil {
		found, err := s.customers.Lookup(ctx, []string{customerRef})
		if err != nil {
			return nil, err
		}
		if _, ok := found[customerRef]; !ok {
			return nil, mapError(ports.ErrUnknownCustomer)
		}
	}

	items := make([]domain.LineItem, 0, len(input.Lines))
	for _, line := range input.Lines {
		snapshot, err := s.catalog.Snapshot(ctx, line.ProductID)
		if err != nil {
			return nil, mapError(err)
		}
		item, err := domain.FreezeLineItem(snapshot, line.Quantity)
		if err != nil {
			return nil, mapError(err)
		}
		items = append(items, item)
	}

	createdAt := s.now().UTC()
	order, err := domain.NewOrder(s.newInvoice(createdAt), customerRef, createdAt, items, input.Shipping)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	return s.view(ctx, saved)
}

func (s *Service) view(ctx context.Context, order *domain.Order) (*types.OrderView, error) {
	summaries, err := s.lookupCustomers(ctx, []string{order.CustomerRef})
	if err != nil {
		return nil, err
	}
	return types.NewOrderView(order, summaries[order.CustomerRef]), nil
}

func (s *Service) lookupCustomers(ctx context.Context, refs []string) (map[string]types.CustomerSummary, error) {
	if s.customers == nil || len(refs) == 0 {
		return map[string]types.CustomerSummary{}, nil
	}
	unique := make([]string, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		unique = append(unique, ref)
	}
	return s.customers.Lookup(ctx, unique)
}

// applyPatch edits the order in place. The status transition is applied last.
func applyPatch(order *domain.Order, patch types.OrderPatch) error {
	for _, correction := range patch.Quantities {
		if err := order.CorrectQuantity(correction.Index, correction.Quantity); err != nil {
			return err
		}
	}
	if patch.TotalPrice != nil {
		if err := order.SetTotalPrice(*patch.TotalPrice); err != nil {
			return err
		}
	}
	if patch.ShippingAddress != nil {
		if err := order.SetShippingAddress(*patch.ShippingAddress); err != nil {
			return err
		}
	}
	if patch.Status != nil {
		if err := order.TransitionTo(*patch.Status); err != nil {
			return err
		}
	}
	return order.Validate()
}

func sortOrders(orders []*domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})
}

var _ ports.Service = (*Service)(nil)
