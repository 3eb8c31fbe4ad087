package memory

import (
	"context"
	"sync"

	"github.com/mcoot/studentdesk/internal/dependencies/clock"
	"github.com/mcoot/studentdesk/internal/model"
	"github.com/mcoot/studentdesk/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu    sync.RWMutex
	clock clock.Clock

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	nextUserID    model.UserID

	students      map[model.StudentID]*model.Student
	studentOrder  []model.StudentID
	nextStudentID model.StudentID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return NewWithClock(clock.New())
}

// NewWithClock creates an in-memory storage that timestamps users with clk
func NewWithClock(clk clock.Clock) *Storage {
	return &Storage{
		clock:         clk,
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		nextUserID:    1,
		students:      make(map[model.StudentID]*model.Student),
		nextStudentID: 1,
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usernameIndex[username]; ok {
		return nil, model.ErrUsernameExists
	}

	user := &model.User{
		ID:           s.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    s.clock.Now(),
	}
	s.nextUserID++

	s.users[user.ID] = user
	s.usernameIndex[username] = user.ID

	copied := *user
	return &copied, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// Student operations

func (s *Storage) CreateStudent(ctx context.Context, fields model.StudentFields) (*model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student := &model.Student{
		ID:            s.nextStudentID,
		StudentFields: copyFields(fields),
	}
	s.nextStudentID++

	s.students[student.ID] = student
	s.studentOrder = append(s.studentOrder, student.ID)

	return copyStudent(student), nil
}

func (s *Storage) ListStudents(ctx context.Context) ([]*model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	students := make([]*model.Student, 0, len(s.studentOrder))
	for _, id := range s.studentOrder {
		students = append(students, copyStudent(s.students[id]))
	}
	return students, nil
}

func (s *Storage) GetStudent(ctx context.Context, id model.StudentID) (*model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	student, ok := s.students[id]
	if !ok {
		return nil, model.ErrStudentNotFound
	}
	return copyStudent(student), nil
}

func (s *Storage) UpdateStudent(ctx context.Context, id model.StudentID, fields model.StudentFields) (*model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	student, ok := s.students[id]
	if !ok {
		return nil, model.ErrStudentNotFound
	}
	student.StudentFields = copyFields(fields)
	return copyStudent(student), nil
}

func (s *Storage) DeleteStudent(ctx context.Context, id model.StudentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[id]; !ok {
		return model.ErrStudentNotFound
	}
	delete(s.students, id)
	for i, existing := range s.studentOrder {
		if existing == id {
			s.studentOrder = append(s.studentOrder[:i], s.studentOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Callers must never share pointers with the stored records

func copyStudent(student *model.Student) *model.Student {
	return &model.Student{
		ID:            student.ID,
		StudentFields: copyFields(student.StudentFields),
	}
}

func copyFields(fields model.StudentFields) model.StudentFields {
	if fields.Age != nil {
		age := *fields.Age
		fields.Age = &age
	}
	return fields
}
