package service

import (
	"context"
	"strings"

	"github.com/skillified/skillified-api/internal/ledger"
)

// Authorizer answers capability questions against the ledger. Roles are not
// a type hierarchy: the same address may own the platform, instruct one
// course and study another, so every elevated action asks the ledger at the
// moment it matters.
type Authorizer struct {
	ledger ledger.Client
}

// NewAuthorizer builds an Authorizer instance.
func NewAuthorizer(client ledger.Client) *Authorizer {
	return &Authorizer{ledger: client}
}

// IsOwner reports whether the address is the platform owner.
func (a *Authorizer) IsOwner(ctx context.Context, address string) (bool, error) {
	owner, err := a.ledger.Owner(ctx)
	if err != nil {
		return false, err
	}

	return sameAddress(owner, address), nil
}

// CanManageCourse reports whether the address may perform instructor-level
// actions on the course (the course's instructor or the platform owner).
func (a *Authorizer) CanManageCourse(ctx context.Context, course ledger.Course, address string) (bool, error) {
	if sameAddress(course.Instructor, address) {
		return true, nil
	}

	return a.IsOwner(ctx, address)
}

func sameAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
