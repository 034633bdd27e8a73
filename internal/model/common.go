package model

import "time"

type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// BaseStatus 带状态的基础模型
type BaseStatus struct {
	BaseModel
	Status int8 `gorm:"not null;default:1;index" json:"status"` // 1:启用 0:禁用
}

// All 返回需要自动迁移的全部模型, 顺序按外键依赖排列
func All() []interface{} {
	return []interface{}{
		&User{},
		&Product{},
		&Version{},
		&Build{},
		&TestPlan{},
		&TestCase{},
		&TestCasePlan{},
		&TestRun{},
		&TestCaseRun{},
		&RevokedSession{},
	}
}
