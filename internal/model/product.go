package model

const (
	ProductTableName = "products"
	VersionTableName = "versions"
)

// Product 产品, 可按 id 或唯一名称引用
type Product struct {
	BaseModel
	Name        string `gorm:"size:64;not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

func (Product) TableName() string {
	return ProductTableName
}

// Version 产品版本
type Version struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;uniqueIndex:uk_product_version" json:"product_id"`
	Value     string `gorm:"size:64;not null;uniqueIndex:uk_product_version" json:"value"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Version) TableName() string {
	return VersionTableName
}
