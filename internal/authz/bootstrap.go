package authz

import "fmt"

// 预置角色名称
const (
	RoleCatalog = "catalog"
	RoleSupport = "support"
	RoleFinance = "finance"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Policies []Policy
}

// BuiltinRoleSeeds 店铺后台预置角色矩阵，超级管理员不走策略判定
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: RoleCatalog,
			Policies: []Policy{
				{Object: "/admin/dashboard/*", Action: "GET"},
				{Object: "/admin/products", Action: "*"},
				{Object: "/admin/products/*", Action: "*"},
				{Object: "/admin/blogs", Action: "*"},
				{Object: "/admin/blogs/*", Action: "*"},
			},
		},
		{
			Role: RoleSupport,
			Policies: []Policy{
				{Object: "/admin/dashboard/*", Action: "GET"},
				{Object: "/admin/orders", Action: "GET"},
				{Object: "/admin/orders/:id", Action: "GET"},
				{Object: "/admin/orders/:id", Action: "PUT"},
				{Object: "/admin/users", Action: "GET"},
				{Object: "/admin/users/:id", Action: "GET"},
				{Object: "/admin/shiprocket/*", Action: "*"},
			},
		},
		{
			Role: RoleFinance,
			Policies: []Policy{
				{Object: "/admin/dashboard/*", Action: "GET"},
				{Object: "/admin/orders", Action: "GET"},
				{Object: "/admin/orders/:id", Action: "GET"},
				{Object: "/admin/payments", Action: "GET"},
				{Object: "/admin/payments/:id", Action: "GET"},
				{Object: "/admin/payments/:id/refund", Action: "POST"},
				{Object: "/admin/wallets/:user_id/reconcile", Action: "GET"},
			},
		},
	}
}

// BootstrapBuiltinRoles 写入预置角色策略，重复执行不会产生重复记录
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return errUnavailable
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}
		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
