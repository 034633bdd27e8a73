package model

import (
	"time"

	"gorm.io/datatypes"
)

// TestRun 测试执行
type TestRun struct {
	ID               int64             `gorm:"column:run_id;primaryKey;autoIncrement" json:"run_id"`
	Summary          string            `gorm:"size:255;not null" json:"summary"`
	Notes            string            `gorm:"type:text" json:"notes"`
	PlanID           int64             `gorm:"not null;index" json:"plan_id"`
	BuildID          int64             `gorm:"not null;index" json:"build_id"`
	ManagerID        int64             `gorm:"not null" json:"manager_id"`
	DefaultTesterID  *int64            `json:"default_tester_id"`
	ProductVersionID *int64            `json:"product_version_id"`
	StartDate        time.Time         `gorm:"autoCreateTime" json:"start_date"`
	StopDate         *time.Time        `json:"stop_date"`
	EnvValues        datatypes.JSONMap `gorm:"type:json" json:"env_values"`

	Plan           *TestPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Build          *Build    `gorm:"foreignKey:BuildID" json:"build,omitempty"`
	Manager        *User     `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	DefaultTester  *User     `gorm:"foreignKey:DefaultTesterID" json:"default_tester,omitempty"`
	ProductVersion *Version  `gorm:"foreignKey:ProductVersionID" json:"product_version,omitempty"`
}

func (TestRun) TableName() string {
	return "test_runs"
}

// TestCaseRun 用例在某次执行中的结果
type TestCaseRun struct {
	ID            int64      `gorm:"column:case_run_id;primaryKey;autoIncrement" json:"case_run_id"`
	RunID         int64      `gorm:"not null;index" json:"run_id"`
	CaseID        int64      `gorm:"not null;index" json:"case_id"`
	BuildID       int64      `gorm:"not null;index" json:"build_id"`
	AssigneeID    *int64     `json:"assignee_id"`
	TestedByID    *int64     `json:"tested_by_id"`
	CaseRunStatus string     `gorm:"size:20;not null" json:"case_run_status"`
	Notes         string     `gorm:"type:text" json:"notes"`
	Sortkey       *int64     `json:"sortkey"`
	CloseDate     *time.Time `json:"close_date"`

	Run      *TestRun  `gorm:"foreignKey:RunID" json:"run,omitempty"`
	Case     *TestCase `gorm:"foreignKey:CaseID" json:"case,omitempty"`
	Build    *Build    `gorm:"foreignKey:BuildID" json:"build,omitempty"`
	Assignee *User     `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	TestedBy *User     `gorm:"foreignKey:TestedByID" json:"tested_by,omitempty"`
}

func (TestCaseRun) TableName() string {
	return "test_case_runs"
}
