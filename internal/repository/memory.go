package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riedtal/admission-backend/internal/model"
)

// In-memory store implementations backing unit tests and local experiments.
// They are drop-in replacements for the pgx repositories and enforce the
// same uniqueness rules.

// MemoryApplicationStore is an in-memory ApplicationRepository equivalent.
type MemoryApplicationStore struct {
	mu     sync.RWMutex
	nextID int64
	apps   map[int64]*model.Application
}

// NewMemoryApplicationStore creates an empty MemoryApplicationStore.
func NewMemoryApplicationStore() *MemoryApplicationStore {
	return &MemoryApplicationStore{nextID: 1, apps: make(map[int64]*model.Application)}
}

func (s *MemoryApplicationStore) GetByID(_ context.Context, id int64) (*model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.apps[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryApplicationStore) Create(_ context.Context, a *model.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.apps {
		if existing.Email == a.Email {
			return ErrDuplicateEmail
		}
	}
	a.ID = s.nextID
	s.nextID++
	if a.Status == "" {
		a.Status = model.StatusSubmitted
	}
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	cp := *a
	s.apps[a.ID] = &cp
	return nil
}

func (s *MemoryApplicationStore) UpdateStatus(_ context.Context, id int64, status model.ApplicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryApplicationStore) SetTuitionFeePaid(_ context.Context, id int64, paid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return ErrNotFound
	}
	a.TuitionFeePaid = paid
	a.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryApplicationStore) FindRankingPool(_ context.Context, programID int64) ([]model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pool []model.Application
	for _, a := range s.apps {
		if a.StudyProgramID == programID && a.Status != model.StatusRejected && a.HighSchoolGrade != nil {
			pool = append(pool, *a)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		gi, gj := *pool[i].HighSchoolGrade, *pool[j].HighSchoolGrade
		if gi != gj {
			return gi < gj
		}
		if !pool[i].CreatedAt.Equal(pool[j].CreatedAt) {
			return pool[i].CreatedAt.Before(pool[j].CreatedAt)
		}
		return pool[i].ID < pool[j].ID
	})
	return pool, nil
}

// MemoryStudyProgramStore is an in-memory StudyProgramRepository equivalent.
type MemoryStudyProgramStore struct {
	mu       sync.RWMutex
	nextID   int64
	programs map[int64]*model.StudyProgram
}

// NewMemoryStudyProgramStore creates an empty MemoryStudyProgramStore.
func NewMemoryStudyProgramStore() *MemoryStudyProgramStore {
	return &MemoryStudyProgramStore{nextID: 1, programs: make(map[int64]*model.StudyProgram)}
}

func (s *MemoryStudyProgramStore) GetByID(_ context.Context, id int64) (*model.StudyProgram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.programs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStudyProgramStore) List(_ context.Context) ([]model.StudyProgram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	programs := make([]model.StudyProgram, 0, len(s.programs))
	for _, p := range s.programs {
		programs = append(programs, *p)
	}
	sort.Slice(programs, func(i, j int) bool { return programs[i].Code < programs[j].Code })
	return programs, nil
}

func (s *MemoryStudyProgramStore) Create(_ context.Context, p *model.StudyProgram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.programs {
		if existing.Code == p.Code {
			return ErrDuplicateProgramCode
		}
	}
	p.ID = s.nextID
	s.nextID++
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	s.programs[p.ID] = &cp
	return nil
}

// MemoryStudentStore is an in-memory StudentRepository equivalent.
type MemoryStudentStore struct {
	mu       sync.RWMutex
	nextID   int64
	students map[int64]*model.Student
}

// NewMemoryStudentStore creates an empty MemoryStudentStore.
func NewMemoryStudentStore() *MemoryStudentStore {
	return &MemoryStudentStore{nextID: 1, students: make(map[int64]*model.Student)}
}

func (s *MemoryStudentStore) GetByApplicationID(_ context.Context, applicationID int64) (*model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.students {
		if st.ApplicationID == applicationID {
			cp := *st
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStudentStore) ExistsByApplicationID(_ context.Context, applicationID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.students {
		if st.ApplicationID == applicationID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStudentStore) ExistsByStudentNumber(_ context.Context, studentNumber string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.students {
		if st.StudentNumber == studentNumber {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStudentStore) FindMaxNumberForPrefix(_ context.Context, prefix string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := ""
	for _, st := range s.students {
		if strings.HasPrefix(st.StudentNumber, prefix) && st.StudentNumber > max {
			max = st.StudentNumber
		}
	}
	return max, nil
}

func (s *MemoryStudentStore) Create(_ context.Context, st *model.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.students {
		if existing.StudentNumber == st.StudentNumber || existing.ApplicationID == st.ApplicationID {
			return ErrDuplicateStudentNumber
		}
	}
	st.ID = s.nextID
	s.nextID++
	now := time.Now()
	st.CreatedAt, st.UpdatedAt = now, now
	cp := *st
	s.students[st.ID] = &cp
	return nil
}

// MemoryWorkflowStore is an in-memory WorkflowRepository equivalent.
type MemoryWorkflowStore struct {
	mu        sync.RWMutex
	instances map[int64]*model.WorkflowInstance
}

// NewMemoryWorkflowStore creates an empty MemoryWorkflowStore.
func NewMemoryWorkflowStore() *MemoryWorkflowStore {
	return &MemoryWorkflowStore{instances: make(map[int64]*model.WorkflowInstance)}
}

func (s *MemoryWorkflowStore) Get(_ context.Context, applicationID int64) (*model.WorkflowInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[applicationID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *inst
	return &cp, nil
}

func (s *MemoryWorkflowStore) Create(_ context.Context, inst *model.WorkflowInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst.UpdatedAt = time.Now()
	cp := *inst
	s.instances[inst.ApplicationID] = &cp
	return nil
}

func (s *MemoryWorkflowStore) Update(_ context.Context, inst *model.WorkflowInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[inst.ApplicationID]; !ok {
		return ErrNotFound
	}
	inst.UpdatedAt = time.Now()
	cp := *inst
	s.instances[inst.ApplicationID] = &cp
	return nil
}
