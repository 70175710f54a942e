package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnforce_RoleMatrix(t *testing.T) {
	enforcer, err := NewEnforcer()
	assert.NoError(t, err)
	svc := NewService(enforcer)

	tests := []struct {
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{RoleGuard, "attendance", "create", true},
		{RoleGuard, "attendance", "force_checkout", false},
		{RoleGuard, "guard", "create", false},
		{RoleManager, "guard", "create", true},
		{RoleManager, "attendance", "create", true}, // inherited from guard
		{RoleManager, "user", "create", false},
		{RoleAdmin, "attendance", "force_checkout", true},
		{RoleAdmin, "attendance", "export", true}, // inherited from manager
		{RoleAdmin, "user", "delete", true},
		{"intruder", "attendance", "read", false},
	}

	for _, tt := range tests {
		allowed, err := svc.Enforce(tt.role, tt.resource, tt.action)
		assert.NoError(t, err)
		assert.Equal(t, tt.allowed, allowed, "%s %s:%s", tt.role, tt.resource, tt.action)
	}
}
