package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Amserna/admin/internal/rbac"
	"github.com/Amserna/admin/internal/rbac/infra"
)

func newService(t *testing.T) rbac.Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer("model.conf", "policy.csv")
	assert.NoError(t, err)
	return rbac.NewService(enforcer)
}

func TestRBACService_Enforce(t *testing.T) {
	svc := newService(t)

	cases := []struct {
		name     string
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"success employee creates leave request", "EMPLOYEE", "leave_request", "create", true},
		{"success employee reads own balance", "EMPLOYEE", "balance", "read", true},
		{"success service head inherits employee rights", "SERVICE_HEAD", "leave_request", "create", true},
		{"success service head decides", "SERVICE_HEAD", "decision", "create", true},
		{"success dg decides", "DG", "decision", "create", true},
		{"success hr manages balances", "HR", "balance", "manage", true},
		{"success hr reads the audit trail", "HR", "audit", "read", true},
		{"negative employee cannot decide", "EMPLOYEE", "decision", "create", false},
		{"negative employee cannot manage balances", "EMPLOYEE", "balance", "manage", false},
		{"negative hierarchy cannot read the audit trail", "HIERARCHY", "audit", "read", false},
		{"negative dga cannot manage balances", "DGA", "balance", "manage", false},
		{"negative unknown role has nothing", "CONTRACTOR", "leave_request", "create", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(tc.role, tc.resource, tc.action)
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}
