package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

func mentee(id string) *models.Identity {
	return &models.Identity{UserID: id, Role: models.RoleMentee}
}

func mentor(id string) *models.Identity {
	return &models.Identity{UserID: id, Role: models.RoleMentor}
}

func TestCheck_NilIdentityFailsClosed(t *testing.T) {
	err := Check(OpListMentors, nil, Ownership{})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
}

func TestCheck_UnregisteredOperationFailsClosed(t *testing.T) {
	err := Check(Operation("ledger.purge_everything"), mentee("u1"), Ownership{})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestCheck_ListMentorsMenteeOnly(t *testing.T) {
	assert.NoError(t, Check(OpListMentors, mentee("u1"), Ownership{}))

	err := Check(OpListMentors, mentor("m1"), Ownership{})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestCheck_ProfileOperationsSelfOnly(t *testing.T) {
	for _, op := range []Operation{OpUpdateProfile, OpUpdateImage} {
		assert.NoError(t, Check(op, mentor("m1"), Ownership{OwnerID: "m1"}))

		err := Check(op, mentor("m1"), Ownership{OwnerID: "m2"})
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden), "op %s must be self-only", op)
	}
}

func TestCheck_CreateRequestMenteeOnly(t *testing.T) {
	assert.NoError(t, Check(OpCreateRequest, mentee("u1"), Ownership{}))

	err := Check(OpCreateRequest, mentor("m1"), Ownership{})
	assert.True(t, apperrors.Is(err, apperrors.ErrRoleViolation))
}

func TestCheck_ListRequestsBothRoles(t *testing.T) {
	assert.NoError(t, Check(OpListRequests, mentee("u1"), Ownership{}))
	assert.NoError(t, Check(OpListRequests, mentor("m1"), Ownership{}))

	unknown := &models.Identity{UserID: "x", Role: "admin"}
	err := Check(OpListRequests, unknown, Ownership{})
	assert.True(t, apperrors.Is(err, apperrors.ErrRoleViolation))
}

func TestCheck_TransitionRequestAddressedMentorOnly(t *testing.T) {
	target := Ownership{MentorID: "m1", MenteeID: "u1"}

	assert.NoError(t, Check(OpTransitionRequest, mentor("m1"), target))

	err := Check(OpTransitionRequest, mentor("m2"), target)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	err = Check(OpTransitionRequest, mentee("u1"), target)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestCheck_DeleteRequestOwningMenteeOnly(t *testing.T) {
	target := Ownership{MentorID: "m1", MenteeID: "u1"}

	assert.NoError(t, Check(OpDeleteRequest, mentee("u1"), target))

	err := Check(OpDeleteRequest, mentee("u2"), target)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	err = Check(OpDeleteRequest, mentor("m1"), target)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}
