package consoleserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessguard "github.com/Apurer/storefront-console/internal/domains/access/adapters/http/guard"
	accessapp "github.com/Apurer/storefront-console/internal/domains/access/application"
	productmapper "github.com/Apurer/storefront-console/internal/domains/catalog/adapters/http/mapper"
	catalogmemory "github.com/Apurer/storefront-console/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/storefront-console/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	customermapper "github.com/Apurer/storefront-console/internal/domains/customers/adapters/http/mapper"
	customermemory "github.com/Apurer/storefront-console/internal/domains/customers/adapters/memory"
	customersapp "github.com/Apurer/storefront-console/internal/domains/customers/application"
	customertypes "github.com/Apurer/storefront-console/internal/domains/customers/application/types"
	customerdomain "github.com/Apurer/storefront-console/internal/domains/customers/domain"
	"github.com/Apurer/storefront-console/internal/domains/invoices/adapters/render"
	invoicesapp "github.com/Apurer/storefront-console/internal/domains/invoices/application"
	invoicesdomain "github.com/Apurer/storefront-console/internal/domains/invoices/domain"
	ordercatalog "github.com/Apurer/storefront-console/internal/domains/orders/adapters/catalog"
	ordercustomers "github.com/Apurer/storefront-console/internal/domains/orders/adapters/customers"
	ordermapper "github.com/Apurer/storefront-console/internal/domains/orders/adapters/http/mapper"
	ordermemory "github.com/Apurer/storefront-console/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/storefront-console/internal/domains/orders/application"
	apierrors "github.com/Apurer/storefront-console/internal/shared/errors"
)

const (
	adminPassword    = "admin-password"
	customerPassword = "customer-password"
)

type consoleFixture struct {
	router   *gin.Engine
	admin    *customerdomain.Customer
	customer *customerdomain.Customer
}

func newConsoleFixture(t *testing.T) *consoleFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	signer, err := customersapp.NewTokenSigner([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	customerService := customersapp.NewService(customermemory.NewRepository(), customermemory.NewSessionStore(), signer)
	admin, err := customerService.RegisterCustomer(ctx, customertypes.RegisterInput{
		Profile:  profile("Ada", "ada@example.com"),
		Role:     customerdomain.RoleAdmin,
		Password: adminPassword,
	})
	require.NoError(t, err)
	customer, err := customerService.RegisterCustomer(ctx, customertypes.RegisterInput{
		Profile:  profile("Bo", "bo@example.com"),
		Password: customerPassword,
	})
	require.NoError(t, err)

	catalogService := catalogapp.NewService(catalogmemory.NewRepository(), catalogmemory.NewObjectStore("http://console.test"))
	orderService := ordersapp.NewService(
		ordermemory.NewRepository(),
		ordersapp.WithProductCatalog(ordercatalog.NewReader(catalogService)),
		ordersapp.WithCustomerDirectory(ordercustomers.NewDirectory(customerService)),
		ordersapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore()),
	)
	invoiceService := invoicesapp.NewService(orderService, invoicesdomain.Branding{StoreName: "Bakery"}, render.Text{}, render.PDF{})

	handlers := ApiHandleFunctions{
		SessionAPI:  NewSessionAPI(customerService),
		ProductAPI:  NewProductAPI(catalogService, nil),
		OrderAPI:    NewOrderAPI(orderService, invoiceService),
		CustomerAPI: NewCustomerAPI(customerService),
		AssetAPI:    NewAssetAPI(catalogService, nil),
	}
	router := NewRouter(handlers, RouterOptions{
		Guard: accessguard.RequireAdmin(accessapp.NewGuard(customerService), "/login"),
	})
	return &consoleFixture{router: router, admin: admin, customer: customer}
}

func profile(name, email string) customerdomain.Profile {
	return customerdomain.Profile{
		FirstName:  name,
		LastName:   "Tester",
		Email:      email,
		Phone:      "070-000000",
		Address:    "Main street 1",
		PostalCode: "12345",
		City:       "Uppsala",
	}
}

func (f *consoleFixture) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *consoleFixture) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	return f.do(req, token)
}

func (f *consoleFixture) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := f.doJSON(t, http.MethodPost, "/api/v1/session", "", customermapper.Credentials{Email: email, Password: password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var session customermapper.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

type upload struct {
	name string
	data []byte
}

func multipartRequest(t *testing.T, path string, product any, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if product != nil {
		raw, err := json.Marshal(product)
		require.NoError(t, err)
		require.NoError(t, writer.WriteField(productField, string(raw)))
	}
	for _, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, file.name))
		header.Set("Content-Type", "image/png")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func draft(sku string) productmapper.ProductDraft {
	return productmapper.ProductDraft{
		SKU:         sku,
		Name:        "Cardamom bun",
		Price:       decimal.RequireFromString("100.00"),
		Stock:       10,
		TaxRate:     decimal.RequireFromString("0.25"),
		Ingredients: []string{"flour", "cardamom"},
		Categories:  []string{"buns"},
		Description: "Swedish classic",
	}
}

func (f *consoleFixture) createProduct(t *testing.T, token, sku string) productmapper.Product {
	t.Helper()
	req := multipartRequest(t, "/api/v1/products", draft(sku), upload{name: "bun.png", data: []byte("png-bytes")})
	rec := f.do(req, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product productmapper.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	return product
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ProblemDetail {
	t.Helper()
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestAdminRoutesRequireSession(t *testing.T) {
	f := newConsoleFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	browser := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	browser.Header.Set("Accept", "text/html")
	rec = f.do(browser, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/login?next=")

	token := f.login(t, "bo@example.com", customerPassword)
	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil), token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newConsoleFixture(t)

	rec := f.doJSON(t, http.MethodPost, "/api/v1/session", "", customermapper.Credentials{Email: "ada@example.com", Password: "wrong-password"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	decodeProblem(t, rec)
}

func TestSessionLifecycle(t *testing.T) {
	f := newConsoleFixture(t)
	token := f.login(t, "ada@example.com", adminPassword)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/session", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	var session customermapper.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, f.admin.ID, session.Customer.ID)
	assert.Empty(t, session.Token)

	rec = f.do(httptest.NewRequest(http.MethodDelete, "/api/v1/session", nil), token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil), token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateProductServesImages(t *testing.T) {
	f := newConsoleFixture(t)
	token := f.login(t, "ada@example.com", adminPassword)

	product := f.createProduct(t, token, "BUN-1")

	require.Len(t, product.Images, 1)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("100")))
	rec := f.do(httptest.NewRequest(http.MethodGet, "/assets/"+product.Images[0].Path, nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())

	rec = f.do(multipartRequest(t, "/api/v1/products", draft("BUN-1"), upload{name: "other.png", data: []byte("x")}), token)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestImageLimitsMapToStatusCodes(t *testing.T) {
	f := newConsoleFixture(t)
	token := f.login(t, "ada@example.com", adminPassword)
	product := f.createProduct(t, token, "BUN-2")
	path := fmt.Sprintf("/api/v1/products/%d/images", product.ID)

	rec := f.do(multipartRequest(t, path, nil, upload{name: "big.png", data: make([]byte, catalogdomain.MaxImageBytes+1)}), token)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = f.do(multipartRequest(t, path, nil,
		upload{name: "b.png", data: make([]byte, catalogdomain.MaxImageBytes)},
		upload{name: "c.png", data: []byte("c")},
		upload{name: "d.png", data: []byte("d")},
		upload{name: "e.png", data: []byte("e")},
	), token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Len(t, problem.Extensions["added"], 3)

	rec = f.doJSON(t, http.MethodPost, path+"/reorder", token, map[string]int{"from": 0, "to": 9})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	f := newConsoleFixture(t)
	token := f.login(t, "ada@example.com", adminPassword)
	product := f.createProduct(t, token, "BUN-3")

	rec := f.doJSON(t, http.MethodPost, "/api/v1/orders", token, ordermapper.PlaceOrder{
		CustomerRef:     f.customer.ID,
		Lines:           []ordermapper.OrderLine{{ProductID: product.ID, Quantity: 2}},
		ShippingAddress: "Main street 1, Uppsala",
		ShippingMethod:  "courier",
		ShippingCost:    decimal.Zero,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order ordermapper.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "pending", order.Status)
	assert.True(t, order.Computed.Subtotal.Equal(decimal.RequireFromString("200.00")))
	assert.True(t, order.Computed.Tax.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, "Bo Tester", order.Customer.Name)

	orderPath := fmt.Sprintf("/api/v1/orders/%d", order.ID)
	shipped := "shipped"
	rec = f.doJSON(t, http.MethodPatch, orderPath, token, ordermapper.OrderPatch{Status: &shipped})
	require.Equal(t, http.StatusConflict, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, []any{"processing", "cancelled"}, problem.Extensions["allowedNext"])

	processing := "processing"
	req := httptest.NewRequest(http.MethodPatch, orderPath, bytes.NewBufferString(`{"status":"processing"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(idempotencyHeader, "retry-1")
	rec = f.do(req, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	replay := httptest.NewRequest(http.MethodPatch, orderPath, bytes.NewBufferString(`{"status":"processing"}`))
	replay.Header.Set("Content-Type", "application/json")
	replay.Header.Set(idempotencyHeader, "retry-1")
	rec = f.do(replay, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = f.doJSON(t, http.MethodPatch, orderPath, token, ordermapper.OrderPatch{Status: &processing})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "processing", decodeProblem(t, rec).Extensions["currentStatus"])

	rec = f.do(httptest.NewRequest(http.MethodGet, orderPath+"/invoice.txt", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), order.InvoiceNumber+".txt")
	assert.Contains(t, rec.Body.String(), "Cardamom bun")

	rec = f.do(httptest.NewRequest(http.MethodGet, orderPath+"/invoice.pdf", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = f.do(httptest.NewRequest(http.MethodGet, orderPath+"/invoice", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), order.InvoiceNumber)

	rec = f.do(httptest.NewRequest(http.MethodDelete, orderPath, nil), token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(httptest.NewRequest(http.MethodGet, orderPath, nil), token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMalformedParametersAreBadRequests(t *testing.T) {
	f := newConsoleFixture(t)
	token := f.login(t, "ada@example.com", adminPassword)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/orders/abc", nil), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/customers/not-a-uuid", nil), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+f.customer.ID, nil), token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	f := newConsoleFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/nowhere", nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	decodeProblem(t, rec)
}

func TestRouterWithoutGuardRejectsAdminRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(ApiHandleFunctions{}, RouterOptions{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
