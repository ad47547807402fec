package handlers

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"marlex/internal/middleware"
	"marlex/internal/models"
	"marlex/internal/services"
	apperrors "marlex/pkg/errors"
	"marlex/pkg/pagination"
	"marlex/pkg/response"

	"github.com/gin-gonic/gin"
)

// ProductHandler 菜品与分类处理器
type ProductHandler struct {
	productService *services.ProductService
	auditService   *services.AuditService
}

// NewProductHandler 创建菜品处理器
func NewProductHandler(productService *services.ProductService, auditService *services.AuditService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		auditService:   auditService,
	}
}

// parseRestaurantIDQuery 解析查询参数中的门店ID
func parseRestaurantIDQuery(c *gin.Context) (uint, error) {
	raw := c.Query("restaurant_id")
	if raw == "" {
		return 0, apperrors.BadRequest("缺少门店ID")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperrors.BadRequest("无效的门店ID")
	}
	return uint(id), nil
}

// ========== 分类 ==========

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	RestaurantID uint   `json:"restaurant_id" binding:"required"`
	Name         string `json:"name" binding:"required,min=1,max=100"`
	Sort         int    `json:"sort"`
}

// CreateCategory 创建分类
// @route POST /api/v1/categories
func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("请求参数错误: " + err.Error()))
		c.Abort()
		return
	}

	category, err := h.productService.CreateCategory(req.RestaurantID, req.Name, req.Sort)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.SuccessWithMessage(c, "创建成功", category)
}

// ListCategories 获取门店分类列表
// @route GET /api/v1/categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	restaurantID, err := parseRestaurantIDQuery(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	categories, err := h.productService.ListCategories(restaurantID)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.Success(c, categories)
}

// UpdateCategoryRequest 更新分类请求
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Sort int    `json:"sort"`
}

// UpdateCategory 更新分类
// @route PUT /api/v1/categories/:id
func (h *ProductHandler) UpdateCategory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("请求参数错误: " + err.Error()))
		c.Abort()
		return
	}

	category, err := h.productService.UpdateCategory(id, req.Name, req.Sort)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.SuccessWithMessage(c, "更新成功", category)
}

// DeleteCategory 删除分类
// @route DELETE /api/v1/categories/:id
func (h *ProductHandler) DeleteCategory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if err := h.productService.DeleteCategory(id); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.SuccessWithMessage(c, "删除成功", nil)
}

// ========== 菜品 ==========

// CreateProductRequest 创建菜品请求
type CreateProductRequest struct {
	RestaurantID uint   `json:"restaurant_id" binding:"required"`
	CategoryID   uint   `json:"category_id" binding:"required"`
	Name         string `json:"name" binding:"required,min=1,max=100"`
	Description  string `json:"description" binding:"max=500"`
	Price        int64  `json:"price" binding:"min=0"`
	Available    bool   `json:"available"`
}

// CreateProduct 创建菜品
// @route POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("请求参数错误: " + err.Error()))
		c.Abort()
		return
	}

	product, err := h.productService.CreateProduct(services.CreateProductParams{
		RestaurantID: req.RestaurantID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Available:    req.Available,
	})
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionCreate, actor.ID, "product", product.ID,
			map[string]interface{}{"name": product.Name})
	}

	response.SuccessWithMessage(c, "创建成功", product)
}

// GetProduct 获取菜品详情
// @route GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	product, err := h.productService.GetProductByID(id)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.Success(c, product)
}

// ListProducts 分页获取门店菜品
// @route GET /api/v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	restaurantID, err := parseRestaurantIDQuery(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	params := pagination.ParsePageParams(c)
	products, total, err := h.productService.GetProductsWithPage(restaurantID, params.Page, params.PageSize)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	response.SuccessWithPage(c, products, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// UpdateProductRequest 更新菜品请求
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	Price       int64  `json:"price" binding:"min=0"`
	Available   bool   `json:"available"`
}

// UpdateProduct 更新菜品
// @route PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("请求参数错误: " + err.Error()))
		c.Abort()
		return
	}

	product, err := h.productService.UpdateProduct(id, req.Name, req.Description, req.Price, req.Available)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionUpdate, actor.ID, "product", product.ID,
			map[string]interface{}{"name": product.Name, "available": product.Available})
	}

	response.SuccessWithMessage(c, "更新成功", product)
}

// DeleteProduct 删除菜品
// @route DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if actor := middleware.CurrentUser(c); actor != nil {
		h.auditService.Record(models.AuditActionDelete, actor.ID, "product", id, nil)
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Export 导出门店菜品为CSV，需要EXPORT_DATA细粒度权限
// @route GET /api/v1/products/export
func (h *ProductHandler) Export(c *gin.Context) {
	restaurantID, err := parseRestaurantIDQuery(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	rows, err := h.productService.Export(restaurantID)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="products_%d.csv"`, restaurantID))

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write([]string{"id", "category", "name", "price", "available"})
	for _, row := range rows {
		_ = writer.Write([]string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Category,
			row.Name,
			strconv.FormatInt(row.Price, 10),
			strconv.FormatBool(row.Available),
		})
	}
	writer.Flush()
}
