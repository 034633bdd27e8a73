package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		need  Permission
		want  bool
	}{
		{"admin wildcard", []string{"admin"}, PermBuildCreate, true},
		{"tester build", []string{"tester"}, PermBuildUpdate, true},
		{"tester case plan", []string{"tester"}, PermCasePlanUpdate, true},
		{"viewer view", []string{"viewer"}, PermBuildView, true},
		{"viewer cannot write", []string{"viewer"}, PermBuildCreate, false},
		{"unknown role", []string{"guest"}, PermBuildView, false},
		{"no roles", nil, PermBuildView, false},
		{"public method", nil, PermNone, true},
		{"second role grants", []string{"viewer", "tester"}, PermBuildCreate, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allow(tt.roles, tt.need))
		})
	}
}

func TestMatchSegments(t *testing.T) {
	assert.True(t, match("*:view", "testcaseplan:view"))
	assert.False(t, match("*:view", "testcaseplan:update"))
	assert.False(t, match("build:view", "build:view:extra"))
	assert.True(t, match("build:*", "build:view:extra"))
	assert.False(t, match("build", "build:view"))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleTester.Valid())
	assert.False(t, Role("root").Valid())
}
