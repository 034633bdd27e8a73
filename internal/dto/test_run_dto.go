package dto

// TestRunResponse 测试执行响应
type TestRunResponse struct {
	RunID            int64                  `json:"run_id"`
	Summary          string                 `json:"summary"`
	Notes            string                 `json:"notes"`
	PlanID           int64                  `json:"plan_id"`
	Plan             string                 `json:"plan"`
	BuildID          int64                  `json:"build_id"`
	Build            string                 `json:"build"`
	ManagerID        int64                  `json:"manager_id"`
	Manager          string                 `json:"manager"`
	DefaultTesterID  *int64                 `json:"default_tester_id"`
	DefaultTester    *string                `json:"default_tester"`
	ProductVersionID *int64                 `json:"product_version_id"`
	ProductVersion   *string                `json:"product_version"`
	StartDate        string                 `json:"start_date"`
	StopDate         *string                `json:"stop_date"`
	EnvValues        map[string]interface{} `json:"env_values"`
}

// TestCaseRunResponse 用例执行结果响应
type TestCaseRunResponse struct {
	CaseRunID     int64   `json:"case_run_id"`
	RunID         int64   `json:"run_id"`
	Run           string  `json:"run"`
	CaseID        int64   `json:"case_id"`
	Case          string  `json:"case"`
	BuildID       int64   `json:"build_id"`
	Build         string  `json:"build"`
	AssigneeID    *int64  `json:"assignee_id"`
	Assignee      *string `json:"assignee"`
	TestedByID    *int64  `json:"tested_by_id"`
	TestedBy      *string `json:"tested_by"`
	CaseRunStatus string  `json:"case_run_status"`
	Notes         string  `json:"notes"`
	Sortkey       *int64  `json:"sortkey"`
	CloseDate     *string `json:"close_date"`
}
