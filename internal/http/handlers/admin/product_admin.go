package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/Theloho/live-commerce-sub002/internal/http/handlers/shared"
	"github.com/Theloho/live-commerce-sub002/internal/http/response"
	"github.com/Theloho/live-commerce-sub002/internal/models"
	"github.com/Theloho/live-commerce-sub002/internal/repository"
	"github.com/Theloho/live-commerce-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts 管理端商品列表（含未上架）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductService.ListProducts(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, products, pagination)
}

// CreateVariantRequest 创建规格请求
type CreateVariantRequest struct {
	Options   models.JSON `json:"options"`
	Price     int64       `json:"price"`
	Inventory int         `json:"inventory"`
}

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	ProductNo string                 `json:"product_no" binding:"required"`
	Title     string                 `json:"title" binding:"required"`
	Thumbnail string                 `json:"thumbnail_url"`
	Images    []string               `json:"images"`
	Price     int64                  `json:"price" binding:"required"`
	Inventory int                    `json:"inventory"`
	Variants  []CreateVariantRequest `json:"variants"`
}

// CreateProduct 创建商品及其规格
func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	variants := make([]service.CreateVariantInput, 0, len(req.Variants))
	for _, v := range req.Variants {
		variants = append(variants, service.CreateVariantInput{
			Options:   v.Options,
			Price:     v.Price,
			Inventory: v.Inventory,
		})
	}

	product, err := h.ProductService.CreateProduct(service.CreateProductInput{
		ProductNo: req.ProductNo,
		Title:     req.Title,
		Thumbnail: req.Thumbnail,
		Images:    req.Images,
		Price:     req.Price,
		Inventory: req.Inventory,
		Variants:  variants,
	})
	if err != nil {
		respondError(c, response.CodeBadRequest, "product create failed", err)
		return
	}
	response.Success(c, product)
}
