package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riedtal/admission-backend/internal/model"
	"github.com/riedtal/admission-backend/internal/repository"
)

func seedStudent(t *testing.T, store *repository.MemoryStudentStore, number string, applicationID int64) {
	t.Helper()
	err := store.Create(context.Background(), &model.Student{
		StudentNumber: number,
		ApplicationID: applicationID,
	})
	require.NoError(t, err)
}

// createCommit persists the allocated number as a student row, the way the
// enrollment path commits allocations.
func createCommit(store *repository.MemoryStudentStore, applicationID int64) func(context.Context, string) error {
	return func(ctx context.Context, number string) error {
		return store.Create(ctx, &model.Student{
			StudentNumber: number,
			ApplicationID: applicationID,
		})
	}
}

func discardCommit(context.Context, string) error { return nil }

func TestAllocate_FirstNumberOfYear(t *testing.T) {
	store := repository.NewMemoryStudentStore()
	s := NewStudentNumberService(store)

	number, err := s.Allocate(context.Background(), "INF", 2025, discardCommit)
	require.NoError(t, err)
	assert.Equal(t, "INF20250001", number)
}

func TestAllocate_ContinuesSequence(t *testing.T) {
	store := repository.NewMemoryStudentStore()
	seedStudent(t, store, "INF20250007", 1)
	s := NewStudentNumberService(store)

	number, err := s.Allocate(context.Background(), "INF", 2025, discardCommit)
	require.NoError(t, err)
	assert.Equal(t, "INF20250008", number)
}

func TestAllocate_PrefixesAreIndependent(t *testing.T) {
	store := repository.NewMemoryStudentStore()
	seedStudent(t, store, "INF20250007", 1)
	seedStudent(t, store, "MED20240003", 2)
	s := NewStudentNumberService(store)

	number, err := s.Allocate(context.Background(), "MED", 2025, discardCommit)
	require.NoError(t, err)
	assert.Equal(t, "MED20250001", number)
}

func TestAllocate_MalformedExistingNumber(t *testing.T) {
	store := repository.NewMemoryStudentStore()
	seedStudent(t, store, "INF2025XXXX", 1)
	s := NewStudentNumberService(store)

	_, err := s.Allocate(context.Background(), "INF", 2025, discardCommit)
	assert.Error(t, err)
}

func TestAllocate_CommitErrorReleasesNumber(t *testing.T) {
	store := repository.NewMemoryStudentStore()
	s := NewStudentNumberService(store)

	_, err := s.Allocate(context.Background(), "INF", 2025, func(context.Context, string) error {
		return fmt.Errorf("insert failed")
	})
	require.Error(t, err)

	// The failed reservation was never persisted, so the sequence restarts.
	number, err := s.Allocate(context.Background(), "INF", 2025, createCommit(store, 1))
	require.NoError(t, err)
	assert.Equal(t, "INF20250001", number)
}

func TestAllocate_BackToBackWithoutInterveningRead(t *testing.T) {
	store := repository.NewMemoryStudentStore()
	s := NewStudentNumberService(store)

	first, err := s.Allocate(context.Background(), "INF", 2025, createCommit(store, 1))
	require.NoError(t, err)
	second, err := s.Allocate(context.Background(), "INF", 2025, createCommit(store, 2))
	require.NoError(t, err)

	assert.Equal(t, "INF20250001", first)
	assert.Equal(t, "INF20250002", second)
}

func TestAllocate_ConcurrentAllocationsAreUnique(t *testing.T) {
	store := repository.NewMemoryStudentStore()
	s := NewStudentNumberService(store)

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]bool)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(applicationID int64) {
			defer wg.Done()
			number, err := s.Allocate(context.Background(), "INF", 2025, createCommit(store, applicationID))
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			seen[number] = true
			mu.Unlock()
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for i := 1; i <= n; i++ {
		assert.Contains(t, seen, fmt.Sprintf("INF2025%04d", i))
	}
}
