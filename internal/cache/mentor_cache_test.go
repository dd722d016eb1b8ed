package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
)

func init() {
	// Initialize logger for tests
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "test"})
}

// fakeDataSource serves a mutable mentor list
type fakeDataSource struct {
	mu      sync.Mutex
	mentors []*models.User
	err     error
	calls   int
}

func (f *fakeDataSource) ListMentors(ctx context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.mentors, nil
}

func (f *fakeDataSource) set(mentors []*models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mentors = mentors
}

func TestMentorCache_InitializeAndGetAll(t *testing.T) {
	ds := &fakeDataSource{mentors: []*models.User{
		{ID: "m1", Role: models.RoleMentor, Name: "Alice", Skills: []string{"Go"}},
		{ID: "m2", Role: models.RoleMentor, Name: "Bob"},
	}}
	mc := NewMentorCache(ds, 600)

	require.False(t, mc.IsReady())
	require.NoError(t, mc.Initialize())
	assert.True(t, mc.IsReady())

	mentors, err := mc.GetAll()
	require.NoError(t, err)
	require.Len(t, mentors, 2)
	assert.Equal(t, "Alice", mentors[0].Name)
}

func TestMentorCache_GetAllBeforeInitialize(t *testing.T) {
	mc := NewMentorCache(&fakeDataSource{}, 600)

	_, err := mc.GetAll()
	assert.Error(t, err)
}

func TestMentorCache_InvalidateRefreshesDirectory(t *testing.T) {
	ds := &fakeDataSource{mentors: []*models.User{
		{ID: "m1", Role: models.RoleMentor, Name: "Alice"},
	}}
	mc := NewMentorCache(ds, 600)
	require.NoError(t, mc.Initialize())

	ds.set([]*models.User{
		{ID: "m1", Role: models.RoleMentor, Name: "Alice"},
		{ID: "m2", Role: models.RoleMentor, Name: "Bob"},
	})
	mc.Invalidate()

	// Invalidation refreshes asynchronously
	assert.Eventually(t, func() bool {
		mentors, err := mc.GetAll()
		return err == nil && len(mentors) == 2
	}, 2*time.Second, 10*time.Millisecond)
}
