package model

import "time"

// TestPlan 测试计划
type TestPlan struct {
	ID               int64     `gorm:"column:plan_id;primaryKey;autoIncrement" json:"plan_id"`
	Name             string    `gorm:"size:255;not null;index" json:"name"`
	ProductID        int64     `gorm:"not null;index" json:"product_id"`
	ProductVersionID *int64    `json:"product_version_id"`
	AuthorID         int64     `gorm:"not null" json:"author_id"`
	IsActive         bool      `gorm:"not null" json:"is_active"`
	CreateDate       time.Time `gorm:"autoCreateTime" json:"create_date"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Author  *User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (TestPlan) TableName() string {
	return "test_plans"
}

// TestCase 测试用例
type TestCase struct {
	ID              int64     `gorm:"column:case_id;primaryKey;autoIncrement" json:"case_id"`
	Summary         string    `gorm:"size:255;not null" json:"summary"`
	AuthorID        int64     `gorm:"not null" json:"author_id"`
	DefaultTesterID *int64    `json:"default_tester_id"`
	IsAutomated     bool      `gorm:"not null" json:"is_automated"`
	CreateDate      time.Time `gorm:"autoCreateTime" json:"create_date"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (TestCase) TableName() string {
	return "test_cases"
}

// TestCasePlan 用例与计划的关联, (plan_id, case_id) 唯一, sortkey 决定用例在计划内的顺序
type TestCasePlan struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	PlanID  int64  `gorm:"not null;uniqueIndex:uk_plan_case" json:"plan_id"`
	CaseID  int64  `gorm:"not null;uniqueIndex:uk_plan_case" json:"case_id"`
	Sortkey *int64 `json:"sortkey"`

	Plan *TestPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Case *TestCase `gorm:"foreignKey:CaseID" json:"case,omitempty"`
}

func (TestCasePlan) TableName() string {
	return "test_case_plans"
}
