package model

const BuildTableName = "test_builds"

// Build 产品构建, (product_id, name) 唯一
type Build struct {
	ID          int64   `gorm:"column:build_id;primaryKey;autoIncrement" json:"build_id"`
	ProductID   int64   `gorm:"not null;uniqueIndex:uk_build_product_name" json:"product_id"`
	Name        string  `gorm:"size:255;not null;uniqueIndex:uk_build_product_name" json:"name"`
	Milestone   string  `gorm:"size:100;not null" json:"milestone"`
	Description *string `gorm:"type:text;not null" json:"description"` // 指针: 未提供时写入 NULL 由数据库拒绝
	IsActive    bool    `gorm:"not null" json:"is_active"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName 指定表名
func (Build) TableName() string {
	return BuildTableName
}
