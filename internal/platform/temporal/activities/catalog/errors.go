package catalog

import (
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	catalogapp "github.com/Apurer/storefront-console/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-console/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-console/internal/shared/faults"
)

// Application error types carried across the workflow boundary.
const (
	ErrTypeInvalidInput      = "InvalidInput"
	ErrTypeDuplicateSKU      = "DuplicateSKU"
	ErrTypeImageTooLarge     = "ImageTooLarge"
	ErrTypeTooManyImages     = "TooManyImages"
	ErrTypeStorageFailure    = "StorageFailure"
	ErrTypeRemoteUnavailable = "RemoteUnavailable"
)

type errorKind struct {
	typ       string
	sentinel  error
	retryable bool
}

var errorKinds = []errorKind{
	{typ: ErrTypeInvalidInput, sentinel: catalogapp.ErrInvalidInput},
	{typ: ErrTypeDuplicateSKU, sentinel: catalogports.ErrDuplicateSKU},
	{typ: ErrTypeImageTooLarge, sentinel: catalogdomain.ErrImageTooLarge},
	{typ: ErrTypeTooManyImages, sentinel: catalogdomain.ErrTooManyImages},
	{typ: ErrTypeStorageFailure, sentinel: faults.ErrStorageFailure, retryable: true},
	{typ: ErrTypeRemoteUnavailable, sentinel: faults.ErrRemoteUnavailable, retryable: true},
}

// toApplicationError tags known failures so the caller can restore them; domain
// rejections are marked non-retryable.
func toApplicationError(err error) error {
	for _, kind := range errorKinds {
		if !errors.Is(err, kind.sentinel) {
			continue
		}
		if kind.retryable {
			return temporal.NewApplicationErrorWithCause(err.Error(), kind.typ, err)
		}
		return temporal.NewNonRetryableApplicationError(err.Error(), kind.typ, err)
	}
	return err
}

// RestoreError maps a workflow failure back onto the catalog sentinel it was raised from.
func RestoreError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	for _, kind := range errorKinds {
		if appErr.Type() == kind.typ {
			return fmt.Errorf("%w: %s", kind.sentinel, appErr.Message())
		}
	}
	return err
}
