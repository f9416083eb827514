package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"financialproducts/internal/catalog"
	"financialproducts/internal/models"
	"financialproducts/internal/repository"
	"financialproducts/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	errNameBadRequest = "BadRequestError"
	errNameNotFound   = "NotFoundError"

	msgInvalidBody   = "Invalid body, check 'errors' property for more info."
	msgNotFound      = "Not product found with that identifier"
	msgDuplicateID   = "Duplicate identifier found in the database"
	msgProductAdded  = "Product added successfully"
	msgProductUpdate = "Product updated successfully"
	msgProductRemove = "Product removed successfully"
)

// ProductHandler handles product-related requests
type ProductHandler struct {
	repo   repository.ProductRepository
	logger *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(repo repository.ProductRepository, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{repo: repo, logger: logger}
}

// ListProducts godoc
// @Summary List all products
// @Description Returns the product catalog, optionally filtered by name or description and truncated
// @Tags products
// @Accept json
// @Produce json
// @Param search query string false "Case-insensitive search over name and description"
// @Param limit query integer false "Maximum number of products"
// @Success 200 {object} models.ProductListResponse
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Name: errNameBadRequest, Message: "Invalid limit"})
			return
		}
		limit = l
	}

	products, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("products.list_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Data: catalog.Display(products, c.Query("search"), limit),
	})
}

// GetProduct godoc
// @Summary Get a product by ID
// @Description Returns a product by its identifier
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.FinancialProduct
// @Failure 404 {object} models.ErrorResponse "Product not found"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Name: errNameNotFound, Message: msgNotFound})
		return
	}
	if err != nil {
		h.logger.Error("products.get_failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct godoc
// @Summary Create a new product
// @Description Creates a new product. The identifier must be unique.
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.FinancialProduct true "Product to create"
// @Success 200 {object} models.MutationResponse
// @Failure 400 {object} models.ErrorResponse "Invalid body or duplicate identifier"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product models.FinancialProduct
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, invalidBody(err))
		return
	}

	if err := h.repo.Create(c.Request.Context(), &product); errors.Is(err, repository.ErrConflict) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Name: errNameBadRequest, Message: msgDuplicateID})
		return
	} else if err != nil {
		h.logger.Error("products.create_failed", zap.String("id", product.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create product"})
		return
	}

	h.logger.Info("products.created", zap.String("id", product.ID))
	c.JSON(http.StatusOK, models.MutationResponse{Message: msgProductAdded, Data: product})
}

// UpdateProduct godoc
// @Summary Update a product
// @Description Updates every field of an existing product except its identifier
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body models.UpdateProductRequest true "Updated product"
// @Success 200 {object} models.MutationResponse
// @Failure 400 {object} models.ErrorResponse "Invalid body"
// @Failure 404 {object} models.ErrorResponse "Product not found"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, invalidBody(err))
		return
	}

	product := req.ToProduct(c.Param("id"))
	if err := h.repo.Update(c.Request.Context(), &product); errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Name: errNameNotFound, Message: msgNotFound})
		return
	} else if err != nil {
		h.logger.Error("products.update_failed", zap.String("id", product.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update product"})
		return
	}

	h.logger.Info("products.updated", zap.String("id", product.ID))
	c.JSON(http.StatusOK, models.MutationResponse{Message: msgProductUpdate, Data: product})
}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Deletes an existing product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse "Product not found"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.repo.Delete(c.Request.Context(), id); errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Name: errNameNotFound, Message: msgNotFound})
		return
	} else if err != nil {
		h.logger.Error("products.delete_failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to delete product"})
		return
	}

	h.logger.Info("products.deleted", zap.String("id", id))
	c.JSON(http.StatusOK, models.SuccessResponse{Message: msgProductRemove})
}

// VerifyIdentifier godoc
// @Summary Check whether an identifier is taken
// @Description Returns true when a product with the given identifier exists
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {boolean} boolean
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /products/verification/{id} [get]
func (h *ProductHandler) VerifyIdentifier(c *gin.Context) {
	exists, err := h.repo.Exists(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("products.verify_failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to verify identifier"})
		return
	}

	c.JSON(http.StatusOK, exists)
}

// invalidBody builds the 400 payload, listing failed fields when binding reached validation
func invalidBody(err error) models.ErrorResponse {
	resp := models.ErrorResponse{Name: errNameBadRequest, Message: msgInvalidBody}
	if fe := validation.FromError(err); fe != nil {
		resp.Errors = fe.Messages()
	} else {
		resp.Errors = map[string]string{"body": "malformed JSON"}
	}
	return resp
}
