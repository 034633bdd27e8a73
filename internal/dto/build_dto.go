package dto

// CreateBuildRequest 创建构建
type CreateBuildRequest struct {
	Product     ProductRef `json:"-"`
	Name        string     `json:"name" validate:"required,max=255"`
	Description *string    `json:"description"` // nil 时原样写入 NULL
	Milestone   *string    `json:"milestone" validate:"omitempty,max=100"`
	IsActive    *bool      `json:"is_active"`
}

// UpdateBuildRequest 更新构建, 仅更新非 nil 字段
type UpdateBuildRequest struct {
	Product     *ProductRef `json:"-"`
	Name        *string     `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string     `json:"description"`
	Milestone   *string     `json:"milestone" validate:"omitempty,max=100"`
	IsActive    *bool       `json:"is_active"`
}

// IsEmpty 没有任何需要更新的字段
func (r *UpdateBuildRequest) IsEmpty() bool {
	return r.Product == nil && r.Name == nil && r.Description == nil && r.Milestone == nil && r.IsActive == nil
}

// BuildFilterQuery Build.filter 查询条件
type BuildFilterQuery struct {
	BuildID   *int64
	Name      *string
	Product   *ProductRef
	ProductID *int64
	Milestone *string
	IsActive  *bool
}

// BuildResponse 构建响应
type BuildResponse struct {
	BuildID     int64   `json:"build_id"`
	Name        string  `json:"name"`
	ProductID   int64   `json:"product_id"`
	Product     string  `json:"product"`
	Milestone   string  `json:"milestone"`
	Description *string `json:"description"`
	IsActive    bool    `json:"is_active"`
}
