//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "console-api"
	ConsumerName = "admin-portal"

	StateOrderPending = "order 1 is pending"
	StateOrderMissing = "no order with id 404"
	StateNoSession    = "admin portal has no session"
)

const (
	PendingOrderID int64 = 1
	MissingOrderID int64 = 404

	// AdminToken is accepted by the provider's contract guard as an admin session.
	AdminToken = "pact-admin-token"

	CustomerRef       = "4c5b2f1e-7d3a-4e8f-9b2c-1a6d0e3f5b71"
	ProductID   int64 = 7
)

const (
	exampleInvoiceNumber = "INV-20240612-0001"
	exampleAddress       = "Storgatan 1, 111 22 Stockholm"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the admin portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleOrderPayload provides stable test data for the pending order.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"id":              PendingOrderID,
		"invoiceNumber":   exampleInvoiceNumber,
		"status":          "pending",
		"allowedNext":     []string{"processing", "cancelled"},
		"shippingAddress": exampleAddress,
		"shippingMethod":  "postnord",
		"shippingCost":    "49",
		"totalPrice":      "139",
	}
}

// ExampleShippingAddress is the delivery address of the seeded order.
func ExampleShippingAddress() string {
	return exampleAddress
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
