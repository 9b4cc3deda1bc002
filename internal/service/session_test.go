package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionStoreEnrollmentCache(t *testing.T) {
	sessions := newTestSessions(t)
	ctx := context.Background()

	alice := Session{ID: "sess-alice", Actor: "0xAlice"}
	bob := Session{ID: "sess-bob", Actor: "0xBob"}

	require.False(t, sessions.IsEnrolled(ctx, alice, 1))

	sessions.MarkEnrolled(ctx, alice, 1)
	require.True(t, sessions.IsEnrolled(ctx, alice, 1))
	require.False(t, sessions.IsEnrolled(ctx, alice, 2))

	// State is scoped per session, never shared across sessions.
	require.False(t, sessions.IsEnrolled(ctx, bob, 1))
}

func TestSessionStoreExamFlag(t *testing.T) {
	sessions := newTestSessions(t)
	ctx := context.Background()
	session := Session{ID: "sess-1", Actor: "0xStudent"}

	require.False(t, sessions.ExamInProgress(ctx, session, 3))

	sessions.SetExamInProgress(ctx, session, 3)
	require.True(t, sessions.ExamInProgress(ctx, session, 3))
	require.False(t, sessions.ExamInProgress(ctx, session, 4))

	sessions.ClearExamInProgress(ctx, session, 3)
	require.False(t, sessions.ExamInProgress(ctx, session, 3))
}

func TestSessionStoreNilClientFailsOpen(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(nil, 0, testLogger())
	session := Session{ID: "sess-1", Actor: "0xStudent"}

	store.MarkEnrolled(ctx, session, 1)
	require.False(t, store.IsEnrolled(ctx, session, 1))

	store.SetExamInProgress(ctx, session, 1)
	require.False(t, store.ExamInProgress(ctx, session, 1))
}

func TestAuthorizerIsOwner(t *testing.T) {
	fake := newFakeLedger()
	authorizer := NewAuthorizer(fake)
	ctx := context.Background()

	isOwner, err := authorizer.IsOwner(ctx, fake.owner)
	require.NoError(t, err)
	require.True(t, isOwner)

	// Address comparison ignores case and surrounding whitespace.
	isOwner, err = authorizer.IsOwner(ctx, "  0XOWNER ")
	require.NoError(t, err)
	require.True(t, isOwner)

	isOwner, err = authorizer.IsOwner(ctx, "0xStudent")
	require.NoError(t, err)
	require.False(t, isOwner)
}

func TestAuthorizerCanManageCourse(t *testing.T) {
	fake := newFakeLedger()
	course := fake.addCourse(ExamIntroductionToPython, "0xInstructor", ExamIntroductionToPython, "0.05")
	authorizer := NewAuthorizer(fake)
	ctx := context.Background()

	allowed, err := authorizer.CanManageCourse(ctx, course, "0xInstructor")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = authorizer.CanManageCourse(ctx, course, fake.owner)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = authorizer.CanManageCourse(ctx, course, "0xStudent")
	require.NoError(t, err)
	require.False(t, allowed)
}
