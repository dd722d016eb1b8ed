// Package auth implements the access gate: one predicate table that decides,
// per operation, whether a resolved identity may act on a target entity.
// Services consult the gate before every mutation so authorization logic has a
// single source of truth; a new operation registers its predicate here and
// nowhere else.
package auth

import (
	"fmt"

	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// Operation names an authorizable action
type Operation string

const (
	OpListMentors       Operation = "directory.list_mentors"
	OpUpdateProfile     Operation = "directory.update_profile"
	OpUpdateImage       Operation = "directory.update_image"
	OpCreateRequest     Operation = "ledger.create_request"
	OpListRequests      Operation = "ledger.list_requests"
	OpTransitionRequest Operation = "ledger.transition_request"
	OpDeleteRequest     Operation = "ledger.delete_request"
)

// Ownership carries the ownership facts of the target entity. Fields are
// filled only where they apply: OwnerID for profile operations, MentorID and
// MenteeID for request operations.
type Ownership struct {
	OwnerID  string
	MentorID string
	MenteeID string
}

// Predicate decides whether identity may perform an operation on a target
type Predicate func(identity *models.Identity, target Ownership) error

var table = map[Operation]Predicate{
	OpListMentors: func(identity *models.Identity, _ Ownership) error {
		// Server-side policy: the mentor directory is mentee-only.
		if !identity.IsMentee() {
			return apperrors.ForbiddenError("mentor directory is limited to mentees")
		}
		return nil
	},

	OpUpdateProfile: selfOnly,
	OpUpdateImage:   selfOnly,

	OpCreateRequest: func(identity *models.Identity, _ Ownership) error {
		if !identity.IsMentee() {
			return apperrors.RoleViolationError("only mentees can create connection requests")
		}
		return nil
	},

	OpListRequests: func(identity *models.Identity, _ Ownership) error {
		if !identity.Role.Valid() {
			return apperrors.RoleViolationError("unknown role")
		}
		return nil
	},

	OpTransitionRequest: func(identity *models.Identity, target Ownership) error {
		if identity.UserID != target.MentorID {
			return apperrors.ForbiddenError("only the addressed mentor can resolve a request")
		}
		return nil
	},

	OpDeleteRequest: func(identity *models.Identity, target Ownership) error {
		if identity.UserID != target.MenteeID {
			return apperrors.ForbiddenError("only the requesting mentee can delete a request")
		}
		return nil
	},
}

// Check vets an operation against the predicate table. Unknown operations are
// denied: failing closed beats silently permitting an unregistered action.
func Check(op Operation, identity *models.Identity, target Ownership) error {
	if identity == nil {
		return apperrors.ErrUnauthenticated
	}

	predicate, ok := table[op]
	if !ok {
		return fmt.Errorf("operation %q not registered: %w", op, apperrors.ErrForbidden)
	}

	return predicate(identity, target)
}

func selfOnly(identity *models.Identity, target Ownership) error {
	if identity.UserID != target.OwnerID {
		return apperrors.ForbiddenError("profile can only be modified by its owner")
	}
	return nil
}
