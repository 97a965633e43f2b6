// Package authz holds the ownership and entitlement checks that gate
// operations on projects, tasks and teams.
package authz

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	authentity "taskhub_backend/internal/feature/auth/domain/entity"
	"taskhub_backend/internal/shared/apperr"
)

// Action is an operation a user attempts on a resource.
type Action string

const (
	ActionView         Action = "view"
	ActionList         Action = "list"
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionAddMember    Action = "add_member"
	ActionRemoveMember Action = "remove_member"
)

// Mutates reports whether the action changes state and therefore needs a subscription.
func (a Action) Mutates() bool {
	switch a {
	case ActionView, ActionList:
		return false
	default:
		return true
	}
}

// ErrNotEntitled is returned when a mutating action is attempted without an active subscription.
var ErrNotEntitled = apperr.New(apperr.ErrUnauthorized, "active subscription required")

// Ownable is implemented by resources that have exactly one owner.
type Ownable interface {
	GetOwnerID() uuid.UUID
}

// Entitlements answers whether a user currently has paid access.
type Entitlements interface {
	VerifyUserSubscription(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Guard is stateless apart from its entitlement source and safe for concurrent use.
type Guard struct {
	entitlements Entitlements
}

// NewGuard creates a Guard.
func NewGuard(entitlements Entitlements) *Guard {
	return &Guard{entitlements: entitlements}
}

// RequireEntitlement fails with ErrNotEntitled when action mutates and user has no active subscription.
func (g *Guard) RequireEntitlement(ctx context.Context, user *authentity.User, action Action) error {
	if !action.Mutates() {
		return nil
	}
	ok, err := g.entitlements.VerifyUserSubscription(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("verify subscription: %w", err)
	}
	if !ok {
		return ErrNotEntitled
	}
	return nil
}

// CheckOwner returns denied when user does not own resource.
// Callers pass a not-found error to hide the resource or a forbidden error to reveal it.
func (g *Guard) CheckOwner(user *authentity.User, resource Ownable, denied error) error {
	if !Owns(user, resource) {
		return denied
	}
	return nil
}

// Fetch loads the target of action and authorizes user on it. The checks run in
// a fixed order: entitlement (for mutating actions), then load, then ownership.
// An unsubscribed caller is therefore refused before learning whether the
// resource exists.
func Fetch[T Ownable](ctx context.Context, g *Guard, user *authentity.User, action Action, denied error, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := g.RequireEntitlement(ctx, user, action); err != nil {
		return zero, err
	}
	resource, err := load(ctx)
	if err != nil {
		return zero, err
	}
	if err := g.CheckOwner(user, resource, denied); err != nil {
		return zero, err
	}
	return resource, nil
}

// Owns reports whether user owns resource.
func Owns(user *authentity.User, resource Ownable) bool {
	return user != nil && resource.GetOwnerID() == user.ID
}
