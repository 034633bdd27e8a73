package rpc

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"tcms/internal/dto"
	"tcms/internal/pkg/auth"
	"tcms/internal/rpc/params"
	"tcms/internal/service"
	"tcms/pkg/constants"
	pkgErrors "tcms/pkg/errors"
)

// Services RPC 方法依赖的服务
type Services struct {
	Build    service.BuildService
	CasePlan service.TestCasePlanService
	Auth     service.AuthService
}

// RegisterMethods 注册全部对外方法
func RegisterMethods(s *Server, svc *Services) {
	b := &buildMethods{svc: svc.Build}
	s.Register("Build.create", b.create, RequirePermission(auth.PermBuildCreate))
	s.Register("Build.update", b.update, RequirePermission(auth.PermBuildUpdate))
	s.Register("Build.get", b.get, RequirePermission(auth.PermBuildView))
	s.Register("Build.get_caseruns", b.getCaseRuns, RequirePermission(auth.PermBuildView))
	s.Register("Build.get_runs", b.getRuns, RequirePermission(auth.PermBuildView))
	s.Register("Build.check_build", b.checkBuild, RequirePermission(auth.PermBuildView))
	s.Register("Build.filter", b.filter, RequirePermission(auth.PermBuildView))

	tcp := &casePlanMethods{svc: svc.CasePlan}
	s.Register("TestCasePlan.get", tcp.get, RequirePermission(auth.PermCasePlanView))
	s.Register("TestCasePlan.update", tcp.update, RequirePermission(auth.PermCasePlanUpdate))

	a := &authMethods{svc: svc.Auth}
	s.Register("Auth.login", a.login, Public())
	s.Register("Auth.logout", a.logout)

	s.Register("system.listMethods", func(context.Context, []params.Value) (interface{}, error) {
		return s.Methods(), nil
	}, Public())
}

type buildMethods struct {
	svc service.BuildService
}

// create(values)
func (m *buildMethods) create(ctx context.Context, args []params.Value) (interface{}, error) {
	if err := params.Arity(args, 1, 1); err != nil {
		return nil, err
	}
	values, err := params.Fields(args[0], "values")
	if err != nil {
		return nil, err
	}
	if !params.Truthy(values["product"]) || !params.Truthy(values["name"]) {
		return nil, pkgErrors.ErrBuildFieldsRequired
	}

	req := &dto.CreateBuildRequest{}
	if req.Product, err = params.ProductRef(values["product"]); err != nil {
		return nil, err
	}
	if req.Name, err = params.Text(values["name"], "name"); err != nil {
		return nil, err
	}
	if v, ok := values["description"]; ok {
		if req.Description, err = params.OptionalText(v, "description"); err != nil {
			return nil, err
		}
	}
	if v, ok := values["milestone"]; ok {
		if req.Milestone, err = params.OptionalText(v, "milestone"); err != nil {
			return nil, err
		}
	}
	if v, ok := values["is_active"]; ok {
		active, err := params.Flag(v, "is_active")
		if err != nil {
			return nil, err
		}
		req.IsActive = &active
	}

	return m.svc.Create(ctx, req)
}

// update(build_id, values), 未知字段忽略
func (m *buildMethods) update(ctx context.Context, args []params.Value) (interface{}, error) {
	if err := params.Arity(args, 2, 2); err != nil {
		return nil, err
	}
	id, err := params.ID(args[0], "build_id")
	if err != nil {
		return nil, err
	}
	values, err := params.Fields(args[1], "values")
	if err != nil {
		return nil, err
	}

	req := &dto.UpdateBuildRequest{}
	if v, ok := values["product"]; ok {
		ref, err := params.ProductRef(v)
		if err != nil {
			return nil, err
		}
		req.Product = &ref
	}
	for _, field := range []struct {
		key string
		dst **string
	}{
		{"name", &req.Name},
		{"milestone", &req.Milestone},
		{"description", &req.Description},
	} {
		v, ok := values[field.key]
		if !ok {
			continue
		}
		text, err := params.Text(v, field.key)
		if err != nil {
			return nil, err
		}
		*field.dst = &text
	}
	if v, ok := values["is_active"]; ok {
		active, err := params.Flag(v, "is_active")
		if err != nil {
			return nil, err
		}
		req.IsActive = &active
	}

	return m.svc.Update(ctx, id, req)
}

func (m *buildMethods) get(ctx context.Context, args []params.Value) (interface{}, error) {
	id, err := buildID(args)
	if err != nil {
		return nil, err
	}
	return m.svc.GetByID(ctx, id)
}

func (m *buildMethods) getCaseRuns(ctx context.Context, args []params.Value) (interface{}, error) {
	id, err := buildID(args)
	if err != nil {
		return nil, err
	}
	return m.svc.ListCaseRuns(ctx, id)
}

func (m *buildMethods) getRuns(ctx context.Context, args []params.Value) (interface{}, error) {
	id, err := buildID(args)
	if err != nil {
		return nil, err
	}
	return m.svc.ListRuns(ctx, id)
}

// checkBuild(build_name, product)
func (m *buildMethods) checkBuild(ctx context.Context, args []params.Value) (interface{}, error) {
	if err := params.Arity(args, 2, 2); err != nil {
		return nil, err
	}
	product, err := params.ProductRef(args[1])
	if err != nil {
		return nil, err
	}
	name, _ := params.BuildName(args[0])
	return m.svc.Check(ctx, name, product)
}

// filter(query)
func (m *buildMethods) filter(ctx context.Context, args []params.Value) (interface{}, error) {
	if err := params.Arity(args, 1, 1); err != nil {
		return nil, err
	}
	values, err := params.Fields(args[0], "query")
	if err != nil {
		return nil, err
	}

	query := &dto.BuildFilterQuery{}
	keys := lo.Keys(values)
	sort.Strings(keys)
	for _, key := range keys {
		v := values[key]
		switch key {
		case "build_id", "product_id":
			id, err := params.ID(v, key)
			if err != nil {
				return nil, err
			}
			if key == "build_id" {
				query.BuildID = &id
			} else {
				query.ProductID = &id
			}
		case "name", "milestone":
			text, err := params.Text(v, key)
			if err != nil {
				return nil, err
			}
			if key == "name" {
				query.Name = &text
			} else {
				query.Milestone = &text
			}
		case "product":
			ref, err := params.ProductRef(v)
			if err != nil {
				return nil, err
			}
			query.Product = &ref
		case "is_active":
			active, err := params.Flag(v, key)
			if err != nil {
				return nil, err
			}
			query.IsActive = &active
		default:
			return nil, pkgErrors.InvalidParameter("unsupported filter key %q", key)
		}
	}

	return m.svc.Filter(ctx, query)
}

func buildID(args []params.Value) (int64, error) {
	if err := params.Arity(args, 1, 1); err != nil {
		return 0, err
	}
	return params.ID(args[0], "build_id")
}

type casePlanMethods struct {
	svc service.TestCasePlanService
}

func caseAndPlan(args []params.Value) (int64, int64, error) {
	caseID, err := params.ID(args[0], "case_id")
	if err != nil {
		return 0, 0, err
	}
	planID, err := params.ID(args[1], "plan_id")
	if err != nil {
		return 0, 0, err
	}
	return caseID, planID, nil
}

// get(case_id, plan_id)
func (m *casePlanMethods) get(ctx context.Context, args []params.Value) (interface{}, error) {
	if err := params.Arity(args, 2, 2); err != nil {
		return nil, err
	}
	caseID, planID, err := caseAndPlan(args)
	if err != nil {
		return nil, err
	}
	return m.svc.Get(ctx, caseID, planID)
}

// update(case_id, plan_id, sortkey), 非整数 sortkey 不写入
func (m *casePlanMethods) update(ctx context.Context, args []params.Value) (interface{}, error) {
	if err := params.Arity(args, 3, 3); err != nil {
		return nil, err
	}
	caseID, planID, err := caseAndPlan(args)
	if err != nil {
		return nil, err
	}

	var sortkey *int64
	if n, ok := params.Sortkey(args[2]); ok {
		sortkey = &n
	}
	return m.svc.UpdateSortkey(ctx, caseID, planID, sortkey)
}

type authMethods struct {
	svc service.AuthService
}

// login(username, password[, auth_type]) 返回会话Token
func (m *authMethods) login(ctx context.Context, args []params.Value) (interface{}, error) {
	if err := params.Arity(args, 2, 3); err != nil {
		return nil, err
	}
	req := &dto.LoginRequest{AuthType: constants.AuthTypeLocal}
	var err error
	if req.Username, err = params.Text(args[0], "username"); err != nil {
		return nil, err
	}
	if req.Password, err = params.Text(args[1], "password"); err != nil {
		return nil, err
	}
	if len(args) == 3 {
		if req.AuthType, err = params.Text(args[2], "auth_type"); err != nil {
			return nil, err
		}
	}

	resp, err := m.svc.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Token, nil
}

func (m *authMethods) logout(ctx context.Context, args []params.Value) (interface{}, error) {
	if err := params.Arity(args, 0, 0); err != nil {
		return nil, err
	}
	return nil, m.svc.Logout(ctx, SessionFrom(ctx))
}
