package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bazario/api/internal/models"
	"bazario/api/internal/service"
)

type reviewResponse struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type productResponse struct {
	ID            string           `json:"id"`
	ShopID        string           `json:"shopId"`
	ShopName      string           `json:"shopName"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	Tags          string           `json:"tags"`
	OriginalPrice float64          `json:"originalPrice"`
	DiscountPrice float64          `json:"discountPrice"`
	Stock         int              `json:"stock"`
	Images        []string         `json:"images"`
	Rating        float64          `json:"rating"`
	SoldOut       int              `json:"soldOut"`
	Reviews       []reviewResponse `json:"reviews"`
	CreatedAt     time.Time        `json:"createdAt"`
}

func toProductResponse(product models.Product) productResponse {
	images := product.ImageKeys
	if images == nil {
		images = []string{}
	}
	reviews := make([]reviewResponse, 0, len(product.Reviews))
	for _, review := range product.Reviews {
		reviews = append(reviews, reviewResponse{
			UserID:    review.UserID,
			UserName:  review.UserName,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		})
	}
	return productResponse{
		ID:            product.ID,
		ShopID:        product.ShopID,
		ShopName:      product.ShopName,
		Name:          product.Name,
		Description:   product.Description,
		Category:      product.Category,
		Tags:          product.Tags,
		OriginalPrice: product.OriginalPrice,
		DiscountPrice: product.DiscountPrice,
		Stock:         product.Stock,
		Images:        images,
		Rating:        product.Rating,
		SoldOut:       product.SoldOut,
		Reviews:       reviews,
		CreatedAt:     product.CreatedAt,
	}
}

func (h HandlerSet) CreateProduct(c *gin.Context) {
	shop, ok := currentSeller(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "seller needs to log in")
		return
	}

	name := c.PostForm("name")
	if name == "" {
		fail(c, http.StatusBadRequest, "product name is required")
		return
	}

	originalPrice, _ := strconv.ParseFloat(c.PostForm("originalPrice"), 64)
	discountPrice, _ := strconv.ParseFloat(c.PostForm("discountPrice"), 64)
	stock, _ := strconv.Atoi(c.PostForm("stock"))

	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, "multipart form required")
		return
	}

	var images []service.ImageUpload
	for _, header := range form.File["images"] {
		file, err := header.Open()
		if err != nil {
			fail(c, http.StatusBadRequest, "unreadable image upload")
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			fail(c, http.StatusBadRequest, "unreadable image upload")
			return
		}
		images = append(images, service.ImageUpload{Data: data})
	}

	product, err := h.products.Create(c.Request.Context(), service.CreateProductInput{
		ShopID:        shop.ID,
		Name:          name,
		Description:   c.PostForm("description"),
		Category:      c.PostForm("category"),
		Tags:          c.PostForm("tags"),
		OriginalPrice: originalPrice,
		DiscountPrice: discountPrice,
		Stock:         stock,
		Images:        images,
	})
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"product": toProductResponse(product),
	})
}

func (h HandlerSet) ListShopProducts(c *gin.Context) {
	products, err := h.products.ListByShop(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	h.respondProducts(c, products)
}

func (h HandlerSet) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	h.respondProducts(c, products)
}

func (h HandlerSet) DeleteProduct(c *gin.Context) {
	shop, ok := currentSeller(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "seller needs to log in")
		return
	}

	if err := h.products.Delete(c.Request.Context(), shop.ID, c.Param("id")); err != nil {
		failFromError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "product deleted successfully",
	})
}

type createReviewRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	OrderID   string  `json:"orderId"`
	Rating    float64 `json:"rating" binding:"required,min=1,max=5"`
	Comment   string  `json:"comment"`
}

func (h HandlerSet) CreateReview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "please log in first")
		return
	}

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.reviews.Submit(c.Request.Context(), service.SubmitReviewInput{
		ProductID: req.ProductID,
		OrderID:   req.OrderID,
		UserID:    user.ID,
		UserName:  user.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "reviewed successfully",
		"product": toProductResponse(product),
	})
}

func (h HandlerSet) AdminListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	h.respondProducts(c, products)
}

func (h HandlerSet) respondProducts(c *gin.Context, products []models.Product) {
	items := make([]productResponse, 0, len(products))
	for _, product := range products {
		items = append(items, toProductResponse(product))
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": items,
	})
}
