// Package fixtures 从 YAML 文件导入种子数据, 重复导入不会产生重复记录.
package fixtures

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tcms/internal/model"
	"tcms/internal/pkg/auth"
	"tcms/internal/pkg/crypto"
	"tcms/internal/pkg/logger"
	"tcms/pkg/constants"
)

// File 种子文件结构
type File struct {
	Users    []User    `yaml:"users"`
	Products []Product `yaml:"products"`
	Plans    []Plan    `yaml:"plans"`
	Runs     []Run     `yaml:"runs"`
}

type User struct {
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	Role        string `yaml:"role"`
	Email       string `yaml:"email"`
	DisplayName string `yaml:"display_name"`
	Disabled    bool   `yaml:"disabled"`
}

type Product struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Versions    []string `yaml:"versions"`
	Builds      []Build  `yaml:"builds"`
}

type Build struct {
	Name        string `yaml:"name"`
	Milestone   string `yaml:"milestone"`
	Description string `yaml:"description"`
	IsActive    *bool  `yaml:"is_active"`
}

type Plan struct {
	Name    string `yaml:"name"`
	Product string `yaml:"product"`
	Version string `yaml:"version"`
	Author  string `yaml:"author"`
	Cases   []Case `yaml:"cases"`
}

type Case struct {
	Summary       string `yaml:"summary"`
	Author        string `yaml:"author"`
	DefaultTester string `yaml:"default_tester"`
	IsAutomated   bool   `yaml:"is_automated"`
	Sortkey       *int64 `yaml:"sortkey"`
}

type Run struct {
	Summary       string                 `yaml:"summary"`
	Notes         string                 `yaml:"notes"`
	Plan          string                 `yaml:"plan"`
	Build         string                 `yaml:"build"`
	Manager       string                 `yaml:"manager"`
	DefaultTester string                 `yaml:"default_tester"`
	EnvValues     map[string]interface{} `yaml:"env_values"`
	CaseRuns      []CaseRun              `yaml:"case_runs"`
}

type CaseRun struct {
	Case     string `yaml:"case"`
	Status   string `yaml:"status"`
	Assignee string `yaml:"assignee"`
	TestedBy string `yaml:"tested_by"`
	Notes    string `yaml:"notes"`
	Sortkey  *int64 `yaml:"sortkey"`
}

// Seeded 导入后各实体名称到主键的映射, 构建的 key 为 "产品/名称"
type Seeded struct {
	Users    map[string]int64
	Products map[string]int64
	Builds   map[string]int64
	Plans    map[string]int64
	Cases    map[string]int64
	Runs     map[string]int64
}

// BuildKey 构建在 Seeded.Builds 中的 key
func BuildKey(product, name string) string {
	return product + "/" + name
}

// Parse 解析 YAML 内容
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("解析种子数据失败: %w", err)
	}
	return &f, nil
}

// Load 读取并导入种子文件
func Load(ctx context.Context, db *gorm.DB, path string) (*Seeded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取种子文件失败: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}

	seeded, err := Apply(ctx, db, f)
	if err != nil {
		return nil, err
	}
	logger.Info("种子数据导入完成",
		zap.String("file", path),
		zap.Int("users", len(seeded.Users)),
		zap.Int("products", len(seeded.Products)),
		zap.Int("builds", len(seeded.Builds)),
		zap.Int("plans", len(seeded.Plans)),
		zap.Int("runs", len(seeded.Runs)))
	return seeded, nil
}

// Apply 在一个事务内导入全部数据
func Apply(ctx context.Context, db *gorm.DB, f *File) (*Seeded, error) {
	s := &Seeded{
		Users:    map[string]int64{},
		Products: map[string]int64{},
		Builds:   map[string]int64{},
		Plans:    map[string]int64{},
		Cases:    map[string]int64{},
		Runs:     map[string]int64{},
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l := &loader{tx: tx, seeded: s, versions: map[string]int64{}, planProduct: map[string]string{}}
		for _, step := range []func(*File) error{l.users, l.products, l.plans, l.runs} {
			if err := step(f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

type loader struct {
	tx          *gorm.DB
	seeded      *Seeded
	versions    map[string]int64  // "产品/版本" -> id
	planProduct map[string]string // 计划 -> 产品名
}

func (l *loader) users(f *File) error {
	for _, u := range f.Users {
		hash, err := crypto.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("用户 %s 密码加密失败: %w", u.Username, err)
		}
		status := constants.StatusEnabled
		if u.Disabled {
			status = constants.StatusDisabled
		}
		role := u.Role
		if role == "" {
			role = string(auth.RoleTester)
		}
		if !auth.Role(role).Valid() {
			return fmt.Errorf("用户 %s 的角色 %s 无效", u.Username, role)
		}

		user := model.User{
			AuthProvider: constants.AuthTypeLocal,
			Username:     u.Username,
			Password:     hash,
			Role:         role,
			Email:        optional(u.Email),
			DisplayName:  optional(u.DisplayName),
		}
		if err := l.tx.Where(model.User{Username: u.Username}).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("导入用户 %s 失败: %w", u.Username, err)
		}
		// Status 的零值会被 gorm 的默认值覆盖, 单独写入
		if err := l.tx.Model(&user).Update("status", status).Error; err != nil {
			return err
		}
		l.seeded.Users[u.Username] = user.ID
	}
	return nil
}

func (l *loader) products(f *File) error {
	for _, p := range f.Products {
		product := model.Product{Name: p.Name, Description: p.Description}
		if err := l.tx.Where(model.Product{Name: p.Name}).FirstOrCreate(&product).Error; err != nil {
			return fmt.Errorf("导入产品 %s 失败: %w", p.Name, err)
		}
		l.seeded.Products[p.Name] = product.ID

		for _, value := range p.Versions {
			version := model.Version{ProductID: product.ID, Value: value}
			if err := l.tx.Where(version).FirstOrCreate(&version).Error; err != nil {
				return fmt.Errorf("导入版本 %s/%s 失败: %w", p.Name, value, err)
			}
			l.versions[p.Name+"/"+value] = version.ID
		}

		for _, b := range p.Builds {
			milestone := b.Milestone
			if milestone == "" {
				milestone = constants.DefaultMilestone
			}
			description := b.Description
			build := model.Build{
				ProductID:   product.ID,
				Name:        b.Name,
				Milestone:   milestone,
				Description: &description,
				IsActive:    b.IsActive == nil || *b.IsActive,
			}
			err := l.tx.Where("product_id = ? AND name = ?", product.ID, b.Name).FirstOrCreate(&build).Error
			if err != nil {
				return fmt.Errorf("导入构建 %s/%s 失败: %w", p.Name, b.Name, err)
			}
			l.seeded.Builds[BuildKey(p.Name, b.Name)] = build.ID
		}
	}
	return nil
}

func (l *loader) plans(f *File) error {
	for _, p := range f.Plans {
		productID, ok := l.seeded.Products[p.Product]
		if !ok {
			return fmt.Errorf("计划 %s 引用了未知产品 %s", p.Name, p.Product)
		}
		authorID, err := l.user(p.Author)
		if err != nil {
			return err
		}

		plan := model.TestPlan{Name: p.Name, ProductID: productID, AuthorID: authorID, IsActive: true}
		if p.Version != "" {
			versionID, ok := l.versions[p.Product+"/"+p.Version]
			if !ok {
				return fmt.Errorf("计划 %s 引用了未知版本 %s", p.Name, p.Version)
			}
			plan.ProductVersionID = &versionID
		}
		if err := l.tx.Where("name = ? AND product_id = ?", p.Name, productID).FirstOrCreate(&plan).Error; err != nil {
			return fmt.Errorf("导入计划 %s 失败: %w", p.Name, err)
		}
		l.seeded.Plans[p.Name] = plan.ID
		l.planProduct[p.Name] = p.Product

		for _, c := range p.Cases {
			caseID, err := l.testCase(c, authorID)
			if err != nil {
				return err
			}
			tcp := model.TestCasePlan{PlanID: plan.ID, CaseID: caseID, Sortkey: c.Sortkey}
			if err := l.tx.Where("plan_id = ? AND case_id = ?", plan.ID, caseID).FirstOrCreate(&tcp).Error; err != nil {
				return fmt.Errorf("关联用例 %s 到计划 %s 失败: %w", c.Summary, p.Name, err)
			}
		}
	}
	return nil
}

func (l *loader) testCase(c Case, planAuthorID int64) (int64, error) {
	if id, ok := l.seeded.Cases[c.Summary]; ok {
		return id, nil
	}

	authorID := planAuthorID
	if c.Author != "" {
		id, err := l.user(c.Author)
		if err != nil {
			return 0, err
		}
		authorID = id
	}
	tc := model.TestCase{Summary: c.Summary, AuthorID: authorID, IsAutomated: c.IsAutomated}
	if c.DefaultTester != "" {
		id, err := l.user(c.DefaultTester)
		if err != nil {
			return 0, err
		}
		tc.DefaultTesterID = &id
	}
	if err := l.tx.Where("summary = ?", c.Summary).FirstOrCreate(&tc).Error; err != nil {
		return 0, fmt.Errorf("导入用例 %s 失败: %w", c.Summary, err)
	}
	l.seeded.Cases[c.Summary] = tc.ID
	return tc.ID, nil
}

func (l *loader) runs(f *File) error {
	for _, r := range f.Runs {
		planID, ok := l.seeded.Plans[r.Plan]
		if !ok {
			return fmt.Errorf("执行 %s 引用了未知计划 %s", r.Summary, r.Plan)
		}
		buildID, ok := l.seeded.Builds[BuildKey(l.planProduct[r.Plan], r.Build)]
		if !ok {
			return fmt.Errorf("执行 %s 引用了未知构建 %s", r.Summary, r.Build)
		}
		managerID, err := l.user(r.Manager)
		if err != nil {
			return err
		}

		run := model.TestRun{
			Summary:   r.Summary,
			Notes:     r.Notes,
			PlanID:    planID,
			BuildID:   buildID,
			ManagerID: managerID,
			EnvValues: datatypes.JSONMap(r.EnvValues),
		}
		if r.DefaultTester != "" {
			id, err := l.user(r.DefaultTester)
			if err != nil {
				return err
			}
			run.DefaultTesterID = &id
		}
		var plan model.TestPlan
		if err := l.tx.First(&plan, planID).Error; err != nil {
			return err
		}
		run.ProductVersionID = plan.ProductVersionID

		if err := l.tx.Where("summary = ? AND plan_id = ?", r.Summary, planID).FirstOrCreate(&run).Error; err != nil {
			return fmt.Errorf("导入执行 %s 失败: %w", r.Summary, err)
		}
		l.seeded.Runs[r.Summary] = run.ID

		for _, cr := range r.CaseRuns {
			if err := l.caseRun(run, cr); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *loader) caseRun(run model.TestRun, cr CaseRun) error {
	caseID, ok := l.seeded.Cases[cr.Case]
	if !ok {
		return fmt.Errorf("执行 %s 引用了未知用例 %s", run.Summary, cr.Case)
	}
	status := cr.Status
	if status == "" {
		status = constants.CaseRunStatusIdle
	}

	caseRun := model.TestCaseRun{
		RunID:         run.ID,
		CaseID:        caseID,
		BuildID:       run.BuildID,
		CaseRunStatus: status,
		Notes:         cr.Notes,
		Sortkey:       cr.Sortkey,
	}
	if cr.Assignee != "" {
		id, err := l.user(cr.Assignee)
		if err != nil {
			return err
		}
		caseRun.AssigneeID = &id
	}
	if cr.TestedBy != "" {
		id, err := l.user(cr.TestedBy)
		if err != nil {
			return err
		}
		caseRun.TestedByID = &id
	}

	err := l.tx.Where("run_id = ? AND case_id = ?", run.ID, caseID).FirstOrCreate(&caseRun).Error
	if err != nil {
		return fmt.Errorf("导入用例执行 %s/%s 失败: %w", run.Summary, cr.Case, err)
	}
	return nil
}

func (l *loader) user(username string) (int64, error) {
	if id, ok := l.seeded.Users[username]; ok {
		return id, nil
	}
	var user model.User
	if err := l.tx.Where("username = ?", username).First(&user).Error; err != nil {
		return 0, fmt.Errorf("未知用户 %s: %w", username, err)
	}
	l.seeded.Users[username] = user.ID
	return user.ID, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
