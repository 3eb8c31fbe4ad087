package storage

import (
	"context"

	"github.com/mcoot/studentdesk/internal/model"
)

// UserStore persists user accounts.
// Implementations must enforce username uniqueness themselves: CreateUser
// returns model.ErrUsernameExists when the username is taken, even if two
// callers race on the same name.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error)
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	// GetUserByUsername is an exact, case-sensitive match
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// StudentStore persists student records.
// Missing ids yield model.ErrStudentNotFound.
type StudentStore interface {
	CreateStudent(ctx context.Context, fields model.StudentFields) (*model.Student, error)
	// ListStudents returns all students in insertion order
	ListStudents(ctx context.Context) ([]*model.Student, error)
	GetStudent(ctx context.Context, id model.StudentID) (*model.Student, error)
	UpdateStudent(ctx context.Context, id model.StudentID, fields model.StudentFields) (*model.Student, error)
	DeleteStudent(ctx context.Context, id model.StudentID) error
}

// Storage defines the interface for data persistence
type Storage interface {
	UserStore
	StudentStore

	// Close releases any connections held by the backend
	Close() error
}
