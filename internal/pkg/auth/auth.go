package auth

import "strings"

// Role 内置角色
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleTester Role = "tester"
	RoleViewer Role = "viewer"
)

// Permission 内置权限, 格式 资源:动作
type Permission string

const (
	PermNone Permission = ""

	PermBuildView   Permission = "build:view"
	PermBuildCreate Permission = "build:create"
	PermBuildUpdate Permission = "build:update"

	PermCasePlanView   Permission = "testcaseplan:view"
	PermCasePlanUpdate Permission = "testcaseplan:update"
)

// RolePermissions 每个角色拥有的权限集合, 支持 * 通配单段, 末尾 * 通配剩余段
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		"*",
	},
	RoleTester: {
		"build:*",
		"testcaseplan:*",
	},
	RoleViewer: {
		"*:view",
	},
}

// Valid 判断是否为内置角色
func (r Role) Valid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// Allow 判断一组角色是否包含所需权限
func Allow(roles []string, need Permission) bool {
	if need == PermNone {
		return true
	}
	for _, have := range collectPermissions(roles) {
		if match(have, need) {
			return true
		}
	}
	return false
}

func collectPermissions(roles []string) []Permission {
	perms := make([]Permission, 0)
	for _, r := range roles {
		if ps, ok := RolePermissions[Role(r)]; ok {
			perms = append(perms, ps...)
		}
	}
	return perms
}

func match(have, need Permission) bool {
	if have == need {
		return true
	}

	haveParts := strings.Split(string(have), ":")
	needParts := strings.Split(string(need), ":")

	for i, part := range haveParts {
		if part == "*" && i == len(haveParts)-1 {
			return true
		}
		if i >= len(needParts) {
			return false
		}
		if part != "*" && part != needParts[i] {
			return false
		}
	}
	return len(haveParts) == len(needParts)
}
