package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ecomm-platform/ecomm/internal/catalog/application"
	"github.com/ecomm-platform/ecomm/internal/catalog/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Handler 商品管理 HTTP 接口
type Handler struct {
	cmd   *application.CatalogCommandService
	query *application.CatalogQueryService
}

// NewHandler 创建商品管理 HTTP 接口实例
func NewHandler(cmd *application.CatalogCommandService, query *application.CatalogQueryService) *Handler {
	return &Handler{cmd: cmd, query: query}
}

// RegisterRoutes 注册商品管理路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	products := r.Group("/admin/products")
	{
		products.POST("", h.AddProduct)
		products.GET("", h.ListSellerProducts)
		products.GET("/available", h.ListAvailable)
		products.GET("/:id", h.GetProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.PUT("/:id/quantity", h.UpdateQuantity)
	}
}

type productRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Quantity    int             `json:"quantity"`
}

// AddProduct 新增商品
func (h *Handler) AddProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.cmd.AddProduct(c.Request.Context(), application.AddProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	}, c.GetHeader("Authorization"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.cmd.UpdateProduct(c.Request.Context(), id, application.UpdateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	}, c.GetHeader("Authorization"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateQuantity 调整库存，quantity 走查询参数
func (h *Handler) UpdateQuantity(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}
	if quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must not be negative"})
		return
	}

	product, err := h.cmd.UpdateQuantity(c.Request.Context(), id, quantity, c.GetHeader("Authorization"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// GetProduct 按 ID 查询商品
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	product, err := h.query.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListSellerProducts 列出当前 seller 的商品
func (h *Handler) ListSellerProducts(c *gin.Context) {
	products, err := h.query.ListSellerProducts(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// ListAvailable 列出有库存的商品
func (h *Handler) ListAvailable(c *gin.Context) {
	products, err := h.query.ListAvailable(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *Handler) productID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAdminRequired), errors.Is(err, domain.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
