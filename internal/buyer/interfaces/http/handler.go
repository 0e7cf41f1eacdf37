package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ecomm-platform/ecomm/internal/buyer/application"
	"github.com/ecomm-platform/ecomm/internal/buyer/domain"
	"github.com/gin-gonic/gin"
)

// Handler 买家 HTTP 接口
type Handler struct {
	cmd   *application.BuyerCommandService
	query *application.BuyerQueryService
}

// NewHandler 创建买家 HTTP 接口实例
func NewHandler(cmd *application.BuyerCommandService, query *application.BuyerQueryService) *Handler {
	return &Handler{cmd: cmd, query: query}
}

// RegisterRoutes 注册买家路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	buyer := r.Group("/buyer")
	{
		buyer.GET("/products", h.BrowseProducts)
		buyer.GET("/cart", h.GetCart)
		buyer.POST("/cart", h.AddToCart)
		buyer.DELETE("/cart/:id", h.RemoveFromCart)
		buyer.GET("/orders", h.GetOrderHistory)
		buyer.POST("/orders", h.PlaceOrder)
	}
}

// BrowseProducts 浏览有库存的商品
func (h *Handler) BrowseProducts(c *gin.Context) {
	products, err := h.query.BrowseProducts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetCart 查看购物车
func (h *Handler) GetCart(c *gin.Context) {
	items, err := h.query.GetCart(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// AddToCart 加入购物车，productId/quantity 走查询参数
func (h *Handler) AddToCart(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Query("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productId"})
		return
	}
	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}

	item, err := h.cmd.AddToCart(c.Request.Context(), application.AddToCartCommand{
		ProductID: uint(productID),
		Quantity:  quantity,
	}, c.GetHeader("Authorization"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// RemoveFromCart 从购物车移除条目
func (h *Handler) RemoveFromCart(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item id"})
		return
	}

	if err := h.cmd.RemoveFromCart(c.Request.Context(), uint(id), c.GetHeader("Authorization")); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

// GetOrderHistory 查看历史订单
func (h *Handler) GetOrderHistory(c *gin.Context) {
	orders, err := h.query.GetOrderHistory(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// PlaceOrder 结算购物车下单
func (h *Handler) PlaceOrder(c *gin.Context) {
	result, err := h.cmd.PlaceOrder(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrBuyerRequired), errors.Is(err, domain.ErrNotCartOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCartItemNotFound), errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyCart), errors.Is(err, domain.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": stockErr.Error()})
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
