package authz

import "fmt"

// 预置角色
const (
	RoleReportViewer      = "report_viewer"
	RoleTreeManager       = "tree_manager"
	RoleCommissionManager = "commission_manager"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 预置角色矩阵：只读、分销树维护、佣金维护
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: RoleReportViewer,
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
		},
		{
			Role:     RoleTreeManager,
			Inherits: []string{RoleReportViewer},
			Policies: []Policy{
				{Object: "/admin/groups", Action: "POST"},
				{Object: "/admin/groups/:id/members", Action: "POST"},
				{Object: "/admin/groups/:id/members/:user_id", Action: "DELETE"},
				{Object: "/admin/users/:id/roles", Action: "PUT"},
				{Object: "/admin/settings/mlm", Action: "PUT"},
			},
		},
		{
			Role:     RoleCommissionManager,
			Inherits: []string{RoleReportViewer},
			Policies: []Policy{
				{Object: "/admin/vendors/:id/commission-rate", Action: "PUT"},
				{Object: "/admin/reports/commissions/refresh", Action: "POST"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与策略（重复执行无副作用）
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(role, policy.Object, policy.Action); err != nil {
				return err
			}
		}
	}
	return nil
}
