package consoleserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/storefront-console/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-console/internal/domains/catalog/ports"
	customersapp "github.com/Apurer/storefront-console/internal/domains/customers/application"
	customersports "github.com/Apurer/storefront-console/internal/domains/customers/ports"
	invoicesdomain "github.com/Apurer/storefront-console/internal/domains/invoices/domain"
	invoicesports "github.com/Apurer/storefront-console/internal/domains/invoices/ports"
	ordersmapper "github.com/Apurer/storefront-console/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/Apurer/storefront-console/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/storefront-console/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront-console/internal/domains/orders/ports"
	apierrors "github.com/Apurer/storefront-console/internal/shared/errors"
	"github.com/Apurer/storefront-console/internal/shared/faults"
)

var problems = apierrors.NewChainedResponder("",
	infrastructureProblem,
	catalogProblem,
	orderProblem,
	invoiceProblem,
	customerProblem,
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	problems.Respond(c, problem)
}

// respondError answers transport-level failures such as malformed bodies.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error())
	case http.StatusForbidden:
		problem = apierrors.ErrForbidden.WithDetail(err.Error())
	case http.StatusRequestEntityTooLarge:
		problem = apierrors.ErrTooLarge.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}

// respondServiceError translates errors returned by application services.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

func infrastructureProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, faults.ErrCorruptRecord):
		return apierrors.ErrInternal.WithDetail(err.Error()), true
	case errors.Is(err, faults.ErrStorageFailure):
		return apierrors.ErrBadGateway.WithDetail(err.Error()), true
	case errors.Is(err, faults.ErrRemoteUnavailable):
		return apierrors.ErrUnavailable.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func catalogProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, catalogdomain.ErrImageNotFound), errors.Is(err, catalogports.ErrObjectNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, catalogports.ErrDuplicateSKU), errors.Is(err, catalogdomain.ErrDuplicateCategory):
		return apierrors.NewConflictProblem(err.Error()), true
	case errors.Is(err, catalogdomain.ErrImageTooLarge):
		return apierrors.ErrTooLarge.WithDetail(err.Error()), true
	case errors.Is(err, catalogdomain.ErrTooManyImages),
		errors.Is(err, catalogdomain.ErrIndexOutOfRange),
		errors.Is(err, catalogdomain.ErrIngredientIndex):
		return apierrors.ErrUnprocessable.WithDetail(err.Error()), true
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func orderProblem(err error) (apierrors.ProblemDetail, bool) {
	var transition *ordersdomain.TransitionError
	switch {
	case errors.As(err, &transition):
		return apierrors.NewConflictProblem(err.Error(), ordersmapper.StatusNames(transition.Allowed)...).
			WithExtension("currentStatus", string(transition.From)), true
	case errors.Is(err, ordersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrDuplicateInvoiceNumber), errors.Is(err, ordersports.ErrIdempotencyConflict):
		return apierrors.NewConflictProblem(err.Error()), true
	case errors.Is(err, ordersdomain.ErrLineItemIndex):
		return apierrors.ErrUnprocessable.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func invoiceProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, invoicesdomain.ErrEmptyOrder):
		return apierrors.ErrInternal.WithDetail(err.Error()), true
	case errors.Is(err, invoicesports.ErrUnsupportedFormat):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func customerProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, customersports.ErrInvalidCredentials), errors.Is(err, customersports.ErrUnauthenticated):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, customersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, customersports.ErrDuplicateCustomer):
		return apierrors.NewConflictProblem(err.Error()), true
	case errors.Is(err, customersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
