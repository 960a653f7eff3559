package consoleserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	invoicemapper "github.com/Apurer/storefront-console/internal/domains/invoices/adapters/http/mapper"
	invoicesports "github.com/Apurer/storefront-console/internal/domains/invoices/ports"
	ordermapper "github.com/Apurer/storefront-console/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/storefront-console/internal/domains/orders/application/types"
	ordersports "github.com/Apurer/storefront-console/internal/domains/orders/ports"
)

const idempotencyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the order lifecycle and invoice services.
type OrderAPI struct {
	service  ordersports.Service
	invoices invoicesports.Service
}

func NewOrderAPI(service ordersports.Service, invoices invoicesports.Service) OrderAPI {
	return OrderAPI{service: service, invoices: invoices}
}

// Get /api/v1/orders
func (api *OrderAPI) ListOrders(c *gin.Context) {
	views, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromViews(views))
}

// Post /api/v1/orders
// Place an order, freezing the current catalog data into its line items
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload ordermapper.PlaceOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	view, err := api.service.PlaceOrder(c.Request.Context(), ordermapper.ToPlaceOrderInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.FromView(view))
}

// Get /api/v1/orders/:orderId
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	view, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromView(view))
}

// Patch /api/v1/orders/:orderId
// Apply a partial edit. Retries carrying the same Idempotency-Key are replayed.
func (api *OrderAPI) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload ordermapper.OrderPatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	patch, err := ordermapper.ToPatch(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	view, err := api.service.UpdateOrder(c.Request.Context(), ordertypes.UpdateOrderInput{
		ID:             id,
		Patch:          patch,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(idempotencyHeader)),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromView(view))
}

// Delete /api/v1/orders/:orderId
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/v1/orders/:orderId/invoice
func (api *OrderAPI) GetInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	invoice, err := api.invoices.GenerateInvoice(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoicemapper.FromDomainInvoice(invoice))
}

// Get /api/v1/orders/:orderId/invoice.pdf
func (api *OrderAPI) DownloadInvoicePDF(c *gin.Context) {
	api.downloadInvoice(c, "pdf")
}

// Get /api/v1/orders/:orderId/invoice.txt
func (api *OrderAPI) DownloadInvoiceText(c *gin.Context) {
	api.downloadInvoice(c, "txt")
}

func (api *OrderAPI) downloadInvoice(c *gin.Context, format string) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	rendered, err := api.invoices.RenderInvoice(c.Request.Context(), id, format)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+rendered.Filename+`"`)
	c.Data(http.StatusOK, rendered.ContentType, rendered.Data)
}
