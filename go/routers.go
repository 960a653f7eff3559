package consoleserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/storefront-console/internal/shared/errors"
)

// APIPrefix is the mount point of the console API.
const APIPrefix = "/api/v1"

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Public routes skip the admin guard.
	Public bool
}

// ApiHandleFunctions groups the handlers of every API area.
type ApiHandleFunctions struct {
	SessionAPI  SessionAPI
	ProductAPI  ProductAPI
	OrderAPI    OrderAPI
	CustomerAPI CustomerAPI
	AssetAPI    AssetAPI
}

// RouterOptions configures cross-cutting behaviour of the router.
type RouterOptions struct {
	// Guard runs in front of every non-public API route. A nil guard rejects them all.
	Guard gin.HandlerFunc
	// Middleware runs for every request, matched or not.
	Middleware []gin.HandlerFunc
	// Metrics is served at /metrics when set.
	Metrics http.Handler
	// MaxMultipartMemory bounds the in-memory part of multipart uploads.
	MaxMultipartMemory int64
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if len(opts.Middleware) > 0 {
		router.Use(opts.Middleware...)
	}
	return NewRouterWithGinEngine(router, handleFunctions, opts)
}

// NewRouterWithGinEngine adds the console routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	if opts.MaxMultipartMemory > 0 {
		router.MaxMultipartMemory = opts.MaxMultipartMemory
	}
	guard := opts.Guard
	if guard == nil {
		guard = rejectAll
	}
	api := router.Group(APIPrefix)
	admin := api.Group("", guard)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		group := admin
		if route.Public {
			group = api
		}
		group.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}

	router.GET("/assets/*path", handleFunctions.AssetAPI.GetAsset)
	router.GET("/healthz", handleFunctions.AssetAPI.Health)
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	router.NoRoute(func(c *gin.Context) {
		respondProblem(c, apierrors.NewNotFoundProblem("route", c.Request.Method+" "+c.Request.URL.Path))
	})
	return router
}

// DefaultHandleFunc answers routes without a bound handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func rejectAll(c *gin.Context) {
	respondProblem(c, apierrors.ErrUnauthorized.WithDetail("access guard not configured"))
	c.Abort()
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Login", http.MethodPost, "/session", handleFunctions.SessionAPI.Login, true},
		{"Logout", http.MethodDelete, "/session", handleFunctions.SessionAPI.Logout, true},
		{"CurrentSession", http.MethodGet, "/session", handleFunctions.SessionAPI.CurrentSession, false},

		{"ListProducts", http.MethodGet, "/products", handleFunctions.ProductAPI.ListProducts, false},
		{"CreateProduct", http.MethodPost, "/products", handleFunctions.ProductAPI.CreateProduct, false},
		{"GetProduct", http.MethodGet, "/products/:productId", handleFunctions.ProductAPI.GetProduct, false},
		{"UpdateProduct", http.MethodPatch, "/products/:productId", handleFunctions.ProductAPI.UpdateProduct, false},
		{"DeleteProduct", http.MethodDelete, "/products/:productId", handleFunctions.ProductAPI.DeleteProduct, false},
		{"AddCategory", http.MethodPost, "/products/:productId/categories", handleFunctions.ProductAPI.AddCategory, false},
		{"RemoveCategory", http.MethodDelete, "/products/:productId/categories/:name", handleFunctions.ProductAPI.RemoveCategory, false},
		{"AddIngredient", http.MethodPost, "/products/:productId/ingredients", handleFunctions.ProductAPI.AddIngredient, false},
		{"RemoveIngredient", http.MethodDelete, "/products/:productId/ingredients/:index", handleFunctions.ProductAPI.RemoveIngredient, false},
		{"AddImages", http.MethodPost, "/products/:productId/images", handleFunctions.ProductAPI.AddImages, false},
		{"ReorderImage", http.MethodPost, "/products/:productId/images/reorder", handleFunctions.ProductAPI.ReorderImage, false},
		{"RemoveImage", http.MethodDelete, "/products/:productId/images", handleFunctions.ProductAPI.RemoveImage, false},

		{"ListOrders", http.MethodGet, "/orders", handleFunctions.OrderAPI.ListOrders, false},
		{"PlaceOrder", http.MethodPost, "/orders", handleFunctions.OrderAPI.PlaceOrder, false},
		{"GetOrder", http.MethodGet, "/orders/:orderId", handleFunctions.OrderAPI.GetOrder, false},
		{"UpdateOrder", http.MethodPatch, "/orders/:orderId", handleFunctions.OrderAPI.UpdateOrder, false},
		{"DeleteOrder", http.MethodDelete, "/orders/:orderId", handleFunctions.OrderAPI.DeleteOrder, false},
		{"GetInvoice", http.MethodGet, "/orders/:orderId/invoice", handleFunctions.OrderAPI.GetInvoice, false},
		{"DownloadInvoicePDF", http.MethodGet, "/orders/:orderId/invoice.pdf", handleFunctions.OrderAPI.DownloadInvoicePDF, false},
		{"DownloadInvoiceText", http.MethodGet, "/orders/:orderId/invoice.txt", handleFunctions.OrderAPI.DownloadInvoiceText, false},

		{"ListCustomers", http.MethodGet, "/customers", handleFunctions.CustomerAPI.ListCustomers, false},
		{"GetCustomer", http.MethodGet, "/customers/:customerId", handleFunctions.CustomerAPI.GetCustomer, false},
		{"UpdateCustomer", http.MethodPut, "/customers/:customerId", handleFunctions.CustomerAPI.UpdateCustomer, false},
		{"DeleteCustomer", http.MethodDelete, "/customers/:customerId", handleFunctions.CustomerAPI.DeleteCustomer, false},
	}
}
