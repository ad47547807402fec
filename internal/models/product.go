package models

// Category 商品分类
type Category struct {
	BaseModel
	RestaurantID uint   `gorm:"not null;index" json:"restaurant_id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Sort         int    `gorm:"default:0" json:"sort"`
}

// TableName 表名
func (c *Category) TableName() string {
	return "categories"
}

// Product 商品模型，价格以分为单位存储
type Product struct {
	BaseModel
	RestaurantID uint   `gorm:"not null;index" json:"restaurant_id"`
	CategoryID   uint   `gorm:"not null;index" json:"category_id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Description  string `gorm:"size:500" json:"description"`
	Price        int64  `gorm:"not null" json:"price"`
	Available    bool   `gorm:"default:true" json:"available"` // 是否对顾客可见

	// 关联关系
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName 表名
func (p *Product) TableName() string {
	return "products"
}
