package consoleserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	customermapper "github.com/Apurer/storefront-console/internal/domains/customers/adapters/http/mapper"
	customersports "github.com/Apurer/storefront-console/internal/domains/customers/ports"
)

// CustomerAPI exposes customer administration.
type CustomerAPI struct {
	service customersports.Service
}

func NewCustomerAPI(service customersports.Service) CustomerAPI {
	return CustomerAPI{service: service}
}

// Get /api/v1/customers
func (api *CustomerAPI) ListCustomers(c *gin.Context) {
	customers, err := api.service.ListCustomers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customermapper.FromDomainCustomers(customers))
}

// Get /api/v1/customers/:customerId
func (api *CustomerAPI) GetCustomer(c *gin.Context) {
	id, ok := parseUUIDParam(c, "customerId")
	if !ok {
		return
	}
	customer, err := api.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customermapper.FromDomainCustomer(customer))
}

// Put /api/v1/customers/:customerId
func (api *CustomerAPI) UpdateCustomer(c *gin.Context) {
	id, ok := parseUUIDParam(c, "customerId")
	if !ok {
		return
	}
	var payload customermapper.CustomerPatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	patch, err := customermapper.ToPatch(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.UpdateCustomer(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customermapper.FromDomainCustomer(updated))
}

// Delete /api/v1/customers/:customerId
func (api *CustomerAPI) DeleteCustomer(c *gin.Context) {
	id, ok := parseUUIDParam(c, "customerId")
	if !ok {
		return
	}
	if err := api.service.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
