package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/riedtal/admission-backend/internal/model"
)

// StudentNumberStore is the persistence slice the allocator needs.
type StudentNumberStore interface {
	FindMaxNumberForPrefix(ctx context.Context, prefix string) (string, error)
	ExistsByStudentNumber(ctx context.Context, number string) (bool, error)
}

// StudentNumberService hands out sequential student numbers of the form
// {PROGRAM_CODE}{year}{seq}, e.g. INF20250007. Allocation for a given
// (program, year) pair is serialized so two applications never read the
// same maximum.
type StudentNumberService struct {
	store StudentNumberStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStudentNumberService creates a new StudentNumberService.
func NewStudentNumberService(store StudentNumberStore) *StudentNumberService {
	return &StudentNumberService{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// Allocate reserves the next free student number for the program and year
// and invokes commit with it. The per-prefix lock is held until commit
// returns, so the number is persisted before the next allocation for the
// same prefix reads the sequence. The database unique constraint remains
// the final arbiter across processes; callers retry on a duplicate error.
func (s *StudentNumberService) Allocate(ctx context.Context, programCode string, year int, commit func(ctx context.Context, number string) error) (string, error) {
	prefix := fmt.Sprintf("%s%d", programCode, year)

	lock := s.prefixLock(prefix)
	lock.Lock()
	defer lock.Unlock()

	max, err := s.store.FindMaxNumberForPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("find max student number: %w", err)
	}

	next := 1
	if max != "" {
		seq, err := parseSequence(max, prefix)
		if err != nil {
			return "", err
		}
		next = seq + 1
	}

	for {
		candidate := fmt.Sprintf("%s%0*d", prefix, model.StudentNumberSequenceDigits, next)
		exists, err := s.store.ExistsByStudentNumber(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check student number %s: %w", candidate, err)
		}
		if !exists {
			if err := commit(ctx, candidate); err != nil {
				return "", err
			}
			return candidate, nil
		}
		next++
	}
}

func (s *StudentNumberService) prefixLock(prefix string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[prefix]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[prefix] = lock
	}
	return lock
}

func parseSequence(number, prefix string) (int, error) {
	if len(number) <= len(prefix) {
		return 0, fmt.Errorf("malformed student number %q for prefix %q", number, prefix)
	}
	seq, err := strconv.Atoi(number[len(prefix):])
	if err != nil {
		return 0, fmt.Errorf("malformed student number %q: %w", number, err)
	}
	return seq, nil
}
