// Package policy is the role-based authorization gate consulted at the start of every
// booking, lifecycle and catalog operation.
package policy

import (
	"database/sql/driver"
	"fmt"

	"salon-backend/internal/apperror"
)

type Role uint8

const (
	RoleUnknown Role = iota
	RoleCustomer
	RoleStaff
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "Customer"
	case RoleStaff:
		return "Staff"
	case RoleAdmin:
		return "Admin"
	default:
		return ""
	}
}

func ParseRole(s string) (Role, error) {
	switch s {
	case "Customer":
		return RoleCustomer, nil
	case "Staff":
		return RoleStaff, nil
	case "Admin":
		return RoleAdmin, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if r == RoleUnknown {
		return nil, fmt.Errorf("cannot marshal unknown role")
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value stores the role by name so the column stays readable.
func (r Role) Value() (driver.Value, error) {
	if r == RoleUnknown {
		return nil, fmt.Errorf("cannot store unknown role")
	}
	return r.String(), nil
}

func (r *Role) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uint64
	Role   Role
}

type Action uint8

const (
	ActionBook Action = iota + 1
	ActionCancel
	ActionReschedule
	ActionUpdateStatus
	ActionViewAppointment
	ActionListAllAppointments
	ActionProcessPayment
	ActionManageCatalog
)

func (a Action) String() string {
	switch a {
	case ActionBook:
		return "book appointments"
	case ActionCancel:
		return "cancel this appointment"
	case ActionReschedule:
		return "reschedule this appointment"
	case ActionUpdateStatus:
		return "update appointment status"
	case ActionViewAppointment:
		return "view this appointment"
	case ActionListAllAppointments:
		return "list all appointments"
	case ActionProcessPayment:
		return "process payment for this appointment"
	case ActionManageCatalog:
		return "manage the catalog"
	default:
		return "perform this action"
	}
}

// Allowed reports whether actor may perform action on a resource owned by ownerID.
// ownerID is ignored for actions that are not ownership-scoped.
func Allowed(actor Actor, action Action, ownerID uint64) bool {
	isOwner := ownerID != 0 && actor.UserID == ownerID

	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleStaff:
		switch action {
		case ActionUpdateStatus, ActionViewAppointment, ActionListAllAppointments, ActionProcessPayment:
			return true
		case ActionBook, ActionCancel, ActionReschedule:
			return isOwner
		case ActionManageCatalog:
			return false
		}
	case RoleCustomer:
		switch action {
		case ActionBook, ActionCancel, ActionReschedule, ActionViewAppointment, ActionProcessPayment:
			return isOwner
		case ActionUpdateStatus, ActionListAllAppointments, ActionManageCatalog:
			return false
		}
	case RoleUnknown:
		return false
	}
	return false
}

// Authorize returns an authorization error when Allowed is false.
func Authorize(actor Actor, action Action, ownerID uint64) error {
	if Allowed(actor, action, ownerID) {
		return nil
	}
	return apperror.Forbidden("You do not have permission to " + action.String() + ".")
}

// AuthorizeBookingFor checks that actor may book on behalf of userID.
// Everyone may book for themselves; only Admin may book for someone else.
func AuthorizeBookingFor(actor Actor, userID uint64) error {
	if actor.Role == RoleUnknown {
		return apperror.Forbidden("You do not have permission to book appointments.")
	}
	return Authorize(actor, ActionBook, userID)
}
