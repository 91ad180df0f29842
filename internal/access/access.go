package access

import (
	"github.com/google/uuid"

	"github.com/distributech/distributech-backend/pkg/enums"
)

// Action names one operation on one resource in the capability table.
type Action string

const (
	ActionRoleRead  Action = "role:read"
	ActionRoleWrite Action = "role:write"

	ActionDepartmentRead  Action = "department:read"
	ActionDepartmentWrite Action = "department:write"

	ActionUserRead  Action = "user:read"
	ActionUserWrite Action = "user:write"

	ActionItemRead  Action = "item:read"
	ActionItemWrite Action = "item:write"

	ActionOrderRead   Action = "order:read"
	ActionOrderCreate Action = "order:create"
	ActionOrderUpdate Action = "order:update"
	ActionOrderDelete Action = "order:delete"

	ActionOrderStatusRead   Action = "order_status:read"
	ActionOrderStatusCreate Action = "order_status:create"
	ActionOrderStatusDelete Action = "order_status:delete"

	ActionOrderItemRead  Action = "order_item:read"
	ActionOrderItemWrite Action = "order_item:write"

	ActionStockRead   Action = "stock:read"
	ActionStockWrite  Action = "stock:write"
	ActionStockDelete Action = "stock:delete"

	ActionCommentRead   Action = "comment:read"
	ActionCommentCreate Action = "comment:create"
	ActionCommentDelete Action = "comment:delete"

	ActionAttachmentRead   Action = "attachment:read"
	ActionAttachmentCreate Action = "attachment:create"
	ActionAttachmentManage Action = "attachment:manage"

	ActionChatUse Action = "chat:use"
)

// OrderScope is the row-level visibility a role has over orders.
type OrderScope int

const (
	OrderScopeNone OrderScope = iota
	OrderScopeDepartment
	OrderScopeAll
)

// everyAuthenticated lists actions granted to every valid role.
var everyAuthenticated = []Action{
	ActionRoleRead,
	ActionDepartmentRead,
	ActionUserRead,
	ActionItemRead,
	ActionOrderRead,
	ActionOrderStatusRead,
	ActionOrderStatusCreate,
	ActionOrderItemRead,
	ActionStockRead,
	ActionCommentRead,
	ActionCommentCreate,
	ActionAttachmentRead,
	ActionAttachmentCreate,
	ActionChatUse,
}

var capabilities = buildCapabilities()

func buildCapabilities() map[enums.Role]map[Action]bool {
	grants := map[enums.Role][]Action{
		enums.RoleSuperAdmin: {
			ActionRoleWrite,
			ActionDepartmentWrite,
			ActionUserWrite,
			ActionItemWrite,
			ActionOrderUpdate,
			ActionOrderDelete,
			ActionOrderStatusDelete,
			ActionOrderItemWrite,
			ActionStockWrite,
			ActionStockDelete,
			ActionCommentDelete,
			ActionAttachmentManage,
		},
		enums.RoleAdministrator: {
			ActionDepartmentWrite,
			ActionUserWrite,
			ActionAttachmentManage,
		},
		enums.RoleDepartmentManager: {
			ActionOrderCreate,
			ActionOrderUpdate,
			ActionOrderItemWrite,
		},
		enums.RoleWarehouseManager: {
			ActionItemWrite,
			ActionOrderUpdate,
			ActionStockWrite,
		},
		enums.RoleSupplier: {
			ActionItemWrite,
			ActionStockWrite,
		},
		enums.RoleStaff: {},
	}

	table := make(map[enums.Role]map[Action]bool, len(grants))
	for role, actions := range grants {
		caps := make(map[Action]bool, len(actions)+len(everyAuthenticated))
		for _, action := range everyAuthenticated {
			caps[action] = true
		}
		for _, action := range actions {
			caps[action] = true
		}
		table[role] = caps
	}
	return table
}

// Allow reports whether the role may perform the action. Unknown roles get
// nothing.
func Allow(role enums.Role, action Action) bool {
	caps, ok := capabilities[role]
	if !ok {
		return false
	}
	return caps[action]
}

// Scope returns the order row visibility for the role.
func Scope(role enums.Role) OrderScope {
	switch role {
	case enums.RoleSuperAdmin, enums.RoleAdministrator, enums.RoleWarehouseManager, enums.RoleSupplier:
		return OrderScopeAll
	case enums.RoleDepartmentManager:
		return OrderScopeDepartment
	default:
		return OrderScopeNone
	}
}

// CanEditComment applies the owner-or-SuperAdmin resource rule.
func CanEditComment(role enums.Role, ownerID, actorID uuid.UUID) bool {
	if role == enums.RoleSuperAdmin {
		return true
	}
	return ownerID == actorID
}
