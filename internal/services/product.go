package services

import (
	"marlex/internal/models"
	apperrors "marlex/pkg/errors"

	"gorm.io/gorm"
)

// ProductService 菜品与分类服务
type ProductService struct {
	db *gorm.DB
}

// NewProductService 创建菜品服务
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// ========== 分类 ==========

// CreateCategory 创建菜品分类
func (s *ProductService) CreateCategory(restaurantID uint, name string, sort int) (*models.Category, error) {
	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, restaurantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("门店不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询门店失败", err)
	}

	category := &models.Category{
		RestaurantID: restaurantID,
		Name:         name,
		Sort:         sort,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "创建分类失败", err)
	}
	return category, nil
}

// ListCategories 获取门店的分类列表
func (s *ProductService) ListCategories(restaurantID uint) ([]*models.Category, error) {
	var categories []*models.Category
	err := s.db.Where("restaurant_id = ?", restaurantID).
		Order("sort, id").Find(&categories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询分类失败", err)
	}
	return categories, nil
}

// UpdateCategory 更新分类
func (s *ProductService) UpdateCategory(id uint, name string, sort int) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("分类不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询分类失败", err)
	}

	category.Name = name
	category.Sort = sort
	if err := s.db.Save(&category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "更新分类失败", err)
	}
	return &category, nil
}

// DeleteCategory 删除分类
func (s *ProductService) DeleteCategory(id uint) error {
	var count int64
	s.db.Model(&models.Product{}).Where("category_id = ?", id).Count(&count)
	if count > 0 {
		return apperrors.Conflict("分类下仍有菜品，无法删除")
	}

	result := s.db.Delete(&models.Category{}, id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.KindInternal, "删除分类失败", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("分类不存在")
	}
	return nil
}

// ========== 菜品 ==========

// CreateProductParams 创建菜品参数
type CreateProductParams struct {
	RestaurantID uint
	CategoryID   uint
	Name         string
	Description  string
	Price        int64
	Available    bool
}

// CreateProduct 创建菜品，价格以分为单位
func (s *ProductService) CreateProduct(params CreateProductParams) (*models.Product, error) {
	if params.Price < 0 {
		return nil, apperrors.BadRequest("菜品价格不能为负数")
	}

	var category models.Category
	if err := s.db.First(&category, params.CategoryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("分类不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询分类失败", err)
	}
	if category.RestaurantID != params.RestaurantID {
		return nil, apperrors.BadRequest("分类不属于该门店")
	}

	product := &models.Product{
		RestaurantID: params.RestaurantID,
		CategoryID:   params.CategoryID,
		Name:         params.Name,
		Description:  params.Description,
		Price:        params.Price,
		Available:    params.Available,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "创建菜品失败", err)
	}
	return product, nil
}

// GetProductByID 根据ID获取菜品
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("菜品不存在")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询菜品失败", err)
	}
	return &product, nil
}

// GetProductsWithPage 分页获取门店菜品
func (s *ProductService) GetProductsWithPage(restaurantID uint, page, pageSize int) ([]*models.Product, int64, error) {
	var products []*models.Product
	var total int64

	query := s.db.Model(&models.Product{}).Where("restaurant_id = ?", restaurantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, "查询菜品失败", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Find(&products).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, "查询菜品失败", err)
	}
	return products, total, nil
}

// UpdateProduct 更新菜品
func (s *ProductService) UpdateProduct(id uint, name, description string, price int64, available bool) (*models.Product, error) {
	if price < 0 {
		return nil, apperrors.BadRequest("菜品价格不能为负数")
	}

	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	product.Name = name
	product.Description = description
	product.Price = price
	product.Available = available
	if err := s.db.Save(product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "更新菜品失败", err)
	}
	return product, nil
}

// DeleteProduct 删除菜品
func (s *ProductService) DeleteProduct(id uint) error {
	result := s.db.Delete(&models.Product{}, id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.KindInternal, "删除菜品失败", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("菜品不存在")
	}
	return nil
}

// ListAvailable 获取门店可售菜品，供顾客点餐页使用
func (s *ProductService) ListAvailable(restaurantID uint) ([]*models.Product, error) {
	var products []*models.Product
	err := s.db.Where("restaurant_id = ? AND available = ?", restaurantID, true).
		Order("category_id, id").Find(&products).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "查询菜品失败", err)
	}
	return products, nil
}

// ExportRow 菜品导出行
type ExportRow struct {
	ID        uint
	Category  string
	Name      string
	Price     int64
	Available bool
}

// Export 导出门店全部菜品，供 EXPORT_DATA 细粒度权限对应的接口使用
func (s *ProductService) Export(restaurantID uint) ([]ExportRow, error) {
	var products []*models.Product
	err := s.db.Preload("Category").Where("restaurant_id = ?", restaurantID).
		Order("category_id, id").Find(&products).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "导出菜品失败", err)
	}

	rows := make([]ExportRow, 0, len(products))
	for _, p := range products {
		categoryName := ""
		if p.Category != nil {
			categoryName = p.Category.Name
		}
		rows = append(rows, ExportRow{
			ID:        p.ID,
			Category:  categoryName,
			Name:      p.Name,
			Price:     p.Price,
			Available: p.Available,
		})
	}
	return rows, nil
}
