package students

import (
	"context"
	"log/slog"

	"github.com/mcoot/studentdesk/internal/model"
	"github.com/mcoot/studentdesk/internal/storage"
)

// Controller manages the shared student roster.
// Every signed-in user sees and may edit every record; actor is only
// recorded in the log.
type Controller struct {
	storage storage.StudentStore
	logger  *slog.Logger
}

// NewController creates a new students Controller
func NewController(storage storage.StudentStore, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		logger:  logger,
	}
}

// List returns every student in insertion order
func (c *Controller) List(ctx context.Context) ([]*model.Student, error) {
	return c.storage.ListStudents(ctx)
}

// Get retrieves a student by id
func (c *Controller) Get(ctx context.Context, id model.StudentID) (*model.Student, error) {
	return c.storage.GetStudent(ctx, id)
}

// Create adds a new student record
func (c *Controller) Create(ctx context.Context, actor model.UserID, fields model.StudentFields) (*model.Student, error) {
	student, err := c.storage.CreateStudent(ctx, fields)
	if err != nil {
		return nil, err
	}

	c.logger.Info("student created",
		slog.Int64("student_id", int64(student.ID)),
		slog.Int64("user_id", int64(actor)),
	)
	return student, nil
}

// Update replaces the mutable fields of an existing student
func (c *Controller) Update(ctx context.Context, actor model.UserID, id model.StudentID, fields model.StudentFields) (*model.Student, error) {
	student, err := c.storage.UpdateStudent(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	c.logger.Info("student updated",
		slog.Int64("student_id", int64(id)),
		slog.Int64("user_id", int64(actor)),
	)
	return student, nil
}

// Delete removes a student record
func (c *Controller) Delete(ctx context.Context, actor model.UserID, id model.StudentID) error {
	if err := c.storage.DeleteStudent(ctx, id); err != nil {
		return err
	}

	c.logger.Info("student deleted",
		slog.Int64("student_id", int64(id)),
		slog.Int64("user_id", int64(actor)),
	)
	return nil
}
