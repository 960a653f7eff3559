package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/storefront-console/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-console/internal/domains/catalog/ports"
	catalogactivities "github.com/Apurer/storefront-console/internal/platform/temporal/activities/catalog"
	catalogworkflows "github.com/Apurer/storefront-console/internal/platform/temporal/workflows/catalog"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalProductWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineProductWorkflows)(nil)
)

// TemporalProductWorkflows starts product creation workflows on a Temporal cluster.
type TemporalProductWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalProductWorkflows wires a Temporal client into the orchestrator.
func NewTemporalProductWorkflows(c client.Client) *TemporalProductWorkflows {
	return &TemporalProductWorkflows{client: c, taskQueue: catalogworkflows.ProductCreationTaskQueue}
}

// CreateProduct starts the workflow and waits for the stored product.
func (o *TemporalProductWorkflows) CreateProduct(ctx context.Context, input types.CreateProductInput) (*domain.Product, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal product workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildProductCreationWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		catalogworkflows.ProductCreationWorkflowName,
		catalogworkflows.ProductCreationWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
		} else {
			return nil, err
		}
	}
	var product domain.Product
	if err := run.Get(ctx, &product); err != nil {
		return nil, catalogactivities.RestoreError(err)
	}
	return &product, nil
}

// InlineProductWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineProductWorkflows struct {
	service ports.Service
}

// NewInlineProductWorkflows wraps the catalog service for synchronous execution.
func NewInlineProductWorkflows(service ports.Service) *InlineProductWorkflows {
	return &InlineProductWorkflows{service: service}
}

// CreateProduct delegates to the application service without durable orchestration.
func (o *InlineProductWorkflows) CreateProduct(ctx context.Context, input types.CreateProductInput) (*domain.Product, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline product workflows not configured")
	}
	return o.service.CreateProduct(ctx, input)
}

func buildProductCreationWorkflowID(input types.CreateProductInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("product-creation-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("product-creation-%s-%s", strings.ToLower(input.Draft.SKU), traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
