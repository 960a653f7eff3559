package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/Apurer/storefront-console/internal/domains/orders/application/types"
)

type normalizedOrderPatch struct {
	OrderID         int64                  `json:"orderId"`
	TotalPrice      *string                `json:"totalPrice"`
	Status          *string                `json:"status"`
	ShippingAddress *string                `json:"shippingAddress"`
	Quantities      []normalizedCorrection `json:"quantities,omitempty"`
}

type normalizedCorrection struct {
	Index    int `json:"index"`
	Quantity int `json:"quantity"`
}

// FingerprintUpdate builds a deterministic hash of an order edit (excluding the idempotency key).
func FingerprintUpdate(input types.UpdateOrderInput) (string, error) {
	payload, err := json.Marshal(normalizeUpdate(input))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func normalizeUpdate(input types.UpdateOrderInput) normalizedOrderPatch {
	patch := input.Patch
	normalized := normalizedOrderPatch{
		OrderID:         input.ID,
		ShippingAddress: patch.ShippingAddress,
	}
	if patch.TotalPrice != nil {
		// 10.0 and 10.00 are the same request.
		total := patch.TotalPrice.String()
		normalized.TotalPrice = &total
	}
	if patch.Status != nil {
		status := string(*patch.Status)
		normalized.Status = &status
	}
	if len(patch.Quantities) > 0 {
		corrections := make([]normalizedCorrection, 0, len(patch.Quantities))
		for _, c := range patch.Quantities {
			corrections = append(corrections, normalizedCorrection{Index: c.Index, Quantity: c.Quantity})
		}
		sort.SliceStable(corrections, func(i, j int) bool {
			return corrections[i].Index < corrections[j].Index
		})
		normalized.Quantities = corrections
	}
	return normalized
}
