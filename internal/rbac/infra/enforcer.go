package infra

import "github.com/casbin/casbin/v2"

// NewEnforcer loads the static role model and policy from disk. The role set
// is closed, so there is no runtime policy administration.
func NewEnforcer(modelPath, policyPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath, policyPath)
}
