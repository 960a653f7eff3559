package consoleserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	accessguard "github.com/Apurer/storefront-console/internal/domains/access/adapters/http/guard"
	customermapper "github.com/Apurer/storefront-console/internal/domains/customers/adapters/http/mapper"
	customersports "github.com/Apurer/storefront-console/internal/domains/customers/ports"
)

// SessionAPI signs operators in and out of the console.
type SessionAPI struct {
	service customersports.Service
	now     func() time.Time
}

func NewSessionAPI(service customersports.Service) SessionAPI {
	return SessionAPI{service: service, now: time.Now}
}

// Post /api/v1/session
// Exchange credentials for a session token
func (api *SessionAPI) Login(c *gin.Context) {
	var payload customermapper.Credentials
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	result, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	maxAge := int(result.ExpiresAt.Sub(api.now()).Seconds())
	setSessionCookie(c, result.Token, maxAge)
	c.JSON(http.StatusCreated, customermapper.Session{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Customer:  customermapper.FromDomainCustomer(result.Customer),
	})
}

// Delete /api/v1/session
// End the current session
func (api *SessionAPI) Logout(c *gin.Context) {
	token := accessguard.TokenFrom(c)
	setSessionCookie(c, "", -1)
	if token == "" {
		c.Status(http.StatusNoContent)
		return
	}
	if err := api.service.Logout(c.Request.Context(), token); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/v1/session
// Describe the signed-in operator
func (api *SessionAPI) CurrentSession(c *gin.Context) {
	caller, err := api.service.CurrentCaller(c.Request.Context(), accessguard.TokenFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	customer, err := api.service.GetCustomer(c.Request.Context(), caller.CustomerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customermapper.Session{
		ExpiresAt: caller.ExpiresAt,
		Customer:  customermapper.FromDomainCustomer(customer),
	})
}

func setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessguard.SessionCookie, token, maxAge, "/", "", c.Request.TLS != nil, true)
}
