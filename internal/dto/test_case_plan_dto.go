package dto

// TestCasePlanResponse 用例-计划关联响应
type TestCasePlanResponse struct {
	ID      int64  `json:"id"`
	PlanID  int64  `json:"plan_id"`
	Plan    string `json:"plan"`
	CaseID  int64  `json:"case_id"`
	Case    string `json:"case"`
	Sortkey *int64 `json:"sortkey"`
}
