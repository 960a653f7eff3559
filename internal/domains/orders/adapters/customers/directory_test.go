package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	customermemory "github.com/Apurer/storefront-console/internal/domains/customers/adapters/memory"
	customerdomain "github.com/Apurer/storefront-console/internal/domains/customers/domain"
)

type repoLookup struct{ repo *customermemory.Repository }

func (r repoLookup) LookupCustomers(ctx context.Context, ids []string) ([]*customerdomain.Customer, error) {
	return r.repo.FindByIDs(ctx, ids)
}

func TestDirectory_LookupSkipsUnknownRefs(t *testing.T) {
	repo := customermemory.NewRepository()
	alex, err := customerdomain.NewCustomer("c1", "C-1001",
		customerdomain.Profile{FirstName: "Alex", LastName: "Berg", Email: "alex@example.com"},
		customerdomain.RoleCustomer, "correct-horse")
	require.NoError(t, err)
	_, err = repo.Save(context.Background(), alex)
	require.NoError(t, err)

	found, err := NewDirectory(repoLookup{repo}).Lookup(context.Background(), []string{"c1", "gone"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "C-1001", found["c1"].CustomerNumber)
	require.Equal(t, "Alex Berg", found["c1"].FullName())
	_, ok := found["gone"]
	require.False(t, ok)
}
