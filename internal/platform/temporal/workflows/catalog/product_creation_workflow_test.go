package catalog

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/Apurer/storefront-console/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/storefront-console/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/storefront-console/internal/domains/catalog/application/types"
	catalogdomain "github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-console/internal/domains/catalog/ports"
	catalogactivities "github.com/Apurer/storefront-console/internal/platform/temporal/activities/catalog"
	"github.com/Apurer/storefront-console/internal/shared/tax"
)

func newEnv(t *testing.T, service catalogports.Service) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := catalogactivities.NewActivities(service)
	env.RegisterWorkflowWithOptions(ProductCreationWorkflow, workflow.RegisterOptions{Name: ProductCreationWorkflowName})
	env.RegisterActivityWithOptions(acts.ReserveProduct, activity.RegisterOptions{Name: catalogactivities.ReserveProductActivityName})
	env.RegisterActivityWithOptions(acts.UploadProductImage, activity.RegisterOptions{Name: catalogactivities.UploadProductImageActivityName})
	env.RegisterActivityWithOptions(acts.PersistProduct, activity.RegisterOptions{Name: catalogactivities.PersistProductActivityName})
	return env
}

func command(sku string, files ...string) catalogtypes.CreateProductInput {
	input := catalogtypes.CreateProductInput{Draft: catalogtypes.ProductDraft{
		SKU:         sku,
		Name:        "Cedar soap",
		Price:       decimal.RequireFromString("80.00"),
		Stock:       4,
		TaxClass:    tax.Standard,
		Ingredients: []string{"cedar oil"},
		Categories:  []string{"soap"},
		Description: "<p>Woody</p>",
	}}
	for _, name := range files {
		input.Images = append(input.Images, catalogtypes.Upload{Filename: name, ContentType: "image/png", Data: bytes.Repeat([]byte{7}, 16)})
	}
	return input
}

func TestProductCreationWorkflow_UploadsSequentiallyThenPersists(t *testing.T) {
	repo := catalogmemory.NewRepository()
	objects := catalogmemory.NewObjectStore("http://console.test")
	env := newEnv(t, catalogapp.NewService(repo, objects))

	env.ExecuteWorkflow(ProductCreationWorkflowName, ProductCreationWorkflowInput{Command: command("SKU-1", "a.png", "b.png", "c.png")})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var product catalogdomain.Product
	require.NoError(t, env.GetWorkflowResult(&product))
	require.Len(t, product.Images, 3)
	require.Equal(t, "products/1/a.png", product.Images[0].Path)
	require.Equal(t, "products/1/c.png", product.Images[2].Path)
	require.True(t, product.Price.Equal(decimal.RequireFromString("80.00")))

	stored, err := repo.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, product.Images, stored.Images)
	require.Equal(t, 3, objects.Len())
}

func TestProductCreationWorkflow_DuplicateSKUIsNotRetried(t *testing.T) {
	repo := catalogmemory.NewRepository()
	objects := catalogmemory.NewObjectStore("http://console.test")
	service := catalogapp.NewService(repo, objects)
	_, err := service.CreateProduct(context.Background(), command("SKU-1", "a.png"))
	require.NoError(t, err)

	env := newEnv(t, service)
	env.ExecuteWorkflow(ProductCreationWorkflowName, ProductCreationWorkflowInput{Command: command("SKU-1", "b.png")})

	require.True(t, env.IsWorkflowCompleted())
	err = catalogactivities.RestoreError(env.GetWorkflowError())
	require.ErrorIs(t, err, catalogports.ErrDuplicateSKU)
	require.Equal(t, 1, objects.Len())
}
