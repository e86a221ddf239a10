package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"undergraduation-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func seededStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	seeded, err := Seed(context.Background(), store, testNow)
	require.NoError(t, err)
	require.True(t, seeded)
	return store
}

func TestOpen_SelectsDriver(t *testing.T) {
	store, err := Open(context.Background(), Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	_, err = Open(context.Background(), Options{Driver: "firebase"})
	assert.Error(t, err)
}

func TestSeed_IsIdempotent(t *testing.T) {
	store := seededStore(t)

	seeded, err := Seed(context.Background(), store, testNow)
	require.NoError(t, err)
	assert.False(t, seeded)

	students, err := store.ListStudents(context.Background())
	require.NoError(t, err)
	assert.Len(t, students, 10)
}

func TestMemoryStore_StudentsNewestActiveFirst(t *testing.T) {
	store := seededStore(t)

	students, err := store.ListStudents(context.Background())
	require.NoError(t, err)
	for i := 1; i < len(students); i++ {
		assert.False(t, students[i].LastActiveAt.After(students[i-1].LastActiveAt))
	}
}

func TestMemoryStore_UpdateStudent(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	status := models.StatusApplying
	updated, err := store.UpdateStudent(ctx, "stu_001", models.StudentUpdate{Status: &status, Flags: models.Flags{"needsEssayHelp"}})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplying, updated.Status)
	assert.Equal(t, models.Flags{"needs_essay_help"}, updated.Flags)
	assert.Equal(t, "Ava Johnson", updated.Name)

	_, err = store.UpdateStudent(ctx, "missing", models.StudentUpdate{Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	s, err := store.GetStudent(ctx, "stu_001")
	require.NoError(t, err)
	s.Name = "changed"
	s.Flags[0] = "mutated"

	again, err := store.GetStudent(ctx, "stu_001")
	require.NoError(t, err)
	assert.Equal(t, "Ava Johnson", again.Name)
	assert.True(t, again.Flags.Has(models.FlagHighIntent))
}

func TestMemoryStore_CommunicationCounters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertStudent(ctx, &models.Student{ID: "s1", Name: "A", Status: models.StatusExploring}))

	older := &models.Communication{StudentID: "s1", Channel: models.ChannelSMS, Body: "one", CreatedAt: testNow.Add(-48 * time.Hour)}
	newer := &models.Communication{StudentID: "s1", Channel: models.ChannelEmail, Body: "two", CreatedAt: testNow}
	require.NoError(t, store.AddCommunication(ctx, newer))
	require.NoError(t, store.AddCommunication(ctx, older))
	assert.NotEmpty(t, newer.ID)

	s, err := store.GetStudent(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.CommunicationsCount)
	require.NotNil(t, s.LastCommunicationAt)
	assert.True(t, s.LastCommunicationAt.Equal(testNow))
	assert.Equal(t, models.ChannelEmail, s.LastCommunicationChannel)

	list, err := store.ListCommunications(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	require.NoError(t, store.DeleteCommunication(ctx, "s1", newer.ID))
	s, err = store.GetStudent(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, s.CommunicationsCount)
	assert.Equal(t, models.ChannelSMS, s.LastCommunicationChannel)

	require.NoError(t, store.DeleteCommunication(ctx, "s1", older.ID))
	s, err = store.GetStudent(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, s.CommunicationsCount)
	assert.Nil(t, s.LastCommunicationAt)

	assert.ErrorIs(t, store.DeleteCommunication(ctx, "s1", older.ID), ErrNotFound)
}

func TestMemoryStore_ListCommunicationsFor(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	all, err := store.ListCommunicationsFor(ctx, nil)
	require.NoError(t, err)
	total := 0
	for _, list := range all {
		total += len(list)
	}
	assert.Equal(t, 12, total)

	some, err := store.ListCommunicationsFor(ctx, []string{"stu_001", "stu_005"})
	require.NoError(t, err)
	assert.Len(t, some["stu_001"], 2)
	_, ok := some["stu_005"]
	assert.False(t, ok)
}

func TestMemoryStore_NotesAndTasks(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	note := &models.Note{StudentID: "stu_003", Content: "Called parents"}
	require.NoError(t, store.AddNote(ctx, note))
	updated, err := store.UpdateNote(ctx, "stu_003", note.ID, "Called parents twice")
	require.NoError(t, err)
	assert.Equal(t, "Called parents twice", updated.Content)
	require.NoError(t, store.DeleteNote(ctx, "stu_003", note.ID))
	assert.ErrorIs(t, store.DeleteNote(ctx, "stu_003", note.ID), ErrNotFound)

	task := &models.Task{StudentID: "stu_003", Title: "Upload transcript"}
	require.NoError(t, store.AddTask(ctx, task))
	assert.Equal(t, models.TaskPending, task.Status)

	done := models.TaskDone
	updatedTask, err := store.UpdateTask(ctx, "stu_003", task.ID, models.TaskUpdate{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, models.TaskDone, updatedTask.Status)
	assert.Equal(t, "Upload transcript", updatedTask.Title)

	_, err = store.UpdateTask(ctx, "stu_004", task.ID, models.TaskUpdate{Status: &done})
	assert.ErrorIs(t, err, ErrNotFound, "tasks are scoped to their student")
}

func TestMemoryStore_Staff(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	staff := &models.Staff{Email: "Counselor@Example.com", Name: "Counselor", Provider: "email"}
	require.NoError(t, store.CreateStaff(ctx, staff))
	assert.ErrorIs(t, store.CreateStaff(ctx, &models.Staff{Email: "counselor@example.com"}), ErrDuplicate)

	found, err := store.FindStaffByEmail(ctx, "COUNSELOR@example.com")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, found.ID)

	_, err = store.FindStaffByGoogleID(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	found.GoogleID = "g-123"
	require.NoError(t, store.UpdateStaff(ctx, found))
	byGoogle, err := store.FindStaffByGoogleID(ctx, "g-123")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, byGoogle.ID)
}

func TestMemoryStore_ConcurrentWrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertStudent(ctx, &models.Student{ID: "s1"}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.AddCommunication(ctx, &models.Communication{StudentID: "s1", Channel: models.ChannelEmail, Body: "x"})
			_, _ = store.ListStudents(ctx)
		}()
	}
	wg.Wait()

	s, err := store.GetStudent(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 50, s.CommunicationsCount)
}
