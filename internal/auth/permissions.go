package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/helpdesk/chamados/internal/domain"
)

// Resources and actions for permission checks. Ownership conditions
// (requester of a ticket, uploader of an attachment) are evaluated by
// the workflow service on top of these role capabilities.
const (
	ResourceTicket     = "ticket"
	ResourceAttachment = "attachment"

	ActionCreate       = "create"
	ActionViewAll      = "view_all"
	ActionEditFields   = "edit_fields"
	ActionChangeStatus = "change_status"
	ActionAssign       = "assign"
	ActionAddFile      = "add_file"
	ActionDelete       = "delete"
)

const permissionModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// rolePolicies is the fixed capability matrix for the two roles.
var rolePolicies = [][]string{
	{string(domain.RoleTechnician), ResourceTicket, ActionCreate},
	{string(domain.RoleTechnician), ResourceTicket, ActionViewAll},
	{string(domain.RoleTechnician), ResourceTicket, ActionEditFields},
	{string(domain.RoleTechnician), ResourceTicket, ActionChangeStatus},
	{string(domain.RoleTechnician), ResourceTicket, ActionAssign},
	{string(domain.RoleTechnician), ResourceAttachment, ActionAddFile},
	{string(domain.RoleTechnician), ResourceAttachment, ActionDelete},

	{string(domain.RoleRequester), ResourceTicket, ActionCreate},
	{string(domain.RoleRequester), ResourceTicket, ActionEditFields},
	{string(domain.RoleRequester), ResourceAttachment, ActionAddFile},
}

// Permissions answers (role, resource, action) capability checks
// through a casbin enforcer loaded with the static helpdesk policy.
type Permissions struct {
	enforcer *casbin.Enforcer
}

// NewPermissions builds the enforcer with the in-memory model and
// policy. The policy never changes at runtime.
func NewPermissions() (*Permissions, error) {
	m, err := model.NewModelFromString(permissionModel)
	if err != nil {
		return nil, fmt.Errorf("parse permission model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	if _, err := enforcer.AddPolicies(rolePolicies); err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}

	return &Permissions{enforcer: enforcer}, nil
}

// Can reports whether the role may perform action on resource.
func (p *Permissions) Can(role domain.Role, resource, action string) bool {
	allowed, err := p.enforcer.Enforce(string(role), resource, action)
	if err != nil {
		return false
	}
	return allowed
}
