package consoleserver

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	productmapper "github.com/Apurer/storefront-console/internal/domains/catalog/adapters/http/mapper"
	catalogtypes "github.com/Apurer/storefront-console/internal/domains/catalog/application/types"
	catalogdomain "github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-console/internal/domains/catalog/ports"
)

const (
	fileField    = "file"
	productField = "product"
)

// ProductAPI wires HTTP transport with the catalog service and the product creation workflow.
type ProductAPI struct {
	service   catalogports.Service
	workflows catalogports.WorkflowOrchestrator
}

// NewProductAPI creates a ProductAPI. Without workflows creation runs directly on the service.
func NewProductAPI(service catalogports.Service, workflows catalogports.WorkflowOrchestrator) ProductAPI {
	return ProductAPI{service: service, workflows: workflows}
}

type categoryBody struct {
	Name string `json:"name"`
}

type ingredientBody struct {
	Ingredient string `json:"ingredient"`
}

type reorderBody struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

// Get /api/v1/products
func (api *ProductAPI) ListProducts(c *gin.Context) {
	products, err := api.service.ListProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomainProducts(products))
}

// Post /api/v1/products
// Create a product from a multipart form: a JSON "product" field plus one or more "file" parts
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	raw := form.Value[productField]
	if len(raw) != 1 {
		respondError(c, http.StatusBadRequest, fmt.Errorf("exactly one %q field is required", productField))
		return
	}
	var payload productmapper.ProductDraft
	if err := json.Unmarshal([]byte(raw[0]), &payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	draft, err := productmapper.ToDraft(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	uploads, err := readUploads(form.File[fileField])
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := catalogtypes.CreateProductInput{
		Draft:          draft,
		Images:         uploads,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(idempotencyHeader)),
	}
	var created *catalogdomain.Product
	if api.workflows != nil {
		created, err = api.workflows.CreateProduct(c.Request.Context(), input)
	} else {
		created, err = api.service.CreateProduct(c.Request.Context(), input)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, productmapper.FromDomainProduct(created))
}

// Get /api/v1/products/:productId
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomainProduct(product))
}

// Patch /api/v1/products/:productId
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload productmapper.ProductPatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	patch, err := productmapper.ToPatch(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomainProduct(updated))
}

// Delete /api/v1/products/:productId
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := api.service.DeleteProduct(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /api/v1/products/:productId/categories
func (api *ProductAPI) AddCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload categoryBody
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.AddCategory(c.Request.Context(), id, payload.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomainProduct(updated))
}

// Delete /api/v1/products/:productId/categories/:name
func (api *ProductAPI) RemoveCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var name string
	if !bindPathParam(c, "name", &name) {
		return
	}
	updated, err := api.service.RemoveCategory(c.Request.Context(), id, name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomainProduct(updated))
}

// Post /api/v1/products/:productId/ingredients
func (api *ProductAPI) AddIngredient(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload ingredientBody
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.AddIngredient(c.Request.Context(), id, payload.Ingredient)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomainProduct(updated))
}

// Delete /api/v1/products/:productId/ingredients/:index
func (api *ProductAPI) RemoveIngredient(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	index, ok := parseIndexParam(c, "index")
	if !ok {
		return
	}
	updated, err := api.service.RemoveIngredient(c.Request.Context(), id, index)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomainProduct(updated))
}

// Post /api/v1/products/:productId/images
// Upload images in submission order. A failed batch still reports what was linked.
func (api *ProductAPI) AddImages(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	uploads, err := readUploads(form.File[fileField])
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	result, err := api.service.AddImages(c.Request.Context(), id, uploads)
	if err != nil {
		problem := problems.Problem(err)
		if result != nil {
			problem = problem.
				WithExtension("added", productmapper.FromDomainImages(result.Added)).
				WithExtension("product", productmapper.FromDomainProduct(result.Product))
		}
		respondProblem(c, problem)
		return
	}
	c.JSON(http.StatusOK, productmapper.ImagesResult{
		Product: productmapper.FromDomainProduct(result.Product),
		Added:   productmapper.FromDomainImages(result.Added),
	})
}

// Post /api/v1/products/:productId/images/reorder
func (api *ProductAPI) ReorderImage(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload reorderBody
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if payload.From == nil || payload.To == nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("from and to are required"))
		return
	}
	updated, err := api.service.ReorderImage(c.Request.Context(), id, *payload.From, *payload.To)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomainProduct(updated))
}

// Delete /api/v1/products/:productId/images?ref=
func (api *ProductAPI) RemoveImage(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	ref := strings.TrimSpace(c.Query("ref"))
	if ref == "" {
		respondError(c, http.StatusBadRequest, fmt.Errorf("query parameter ref is required"))
		return
	}
	updated, err := api.service.RemoveImage(c.Request.Context(), id, ref)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomainProduct(updated))
}

// readUploads loads the files in form order. Each read stops one byte past the
// size limit so oversized files are still rejected by the catalog.
func readUploads(files []*multipart.FileHeader) ([]catalogtypes.Upload, error) {
	uploads := make([]catalogtypes.Upload, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", header.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(file, catalogdomain.MaxImageBytes+1))
		_ = file.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", header.Filename, err)
		}
		contentType := header.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(data)
		}
		uploads = append(uploads, catalogtypes.Upload{
			Filename:    header.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}
	return uploads, nil
}
