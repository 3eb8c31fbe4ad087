package students

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/studentdesk/internal/model"
	"github.com/mcoot/studentdesk/internal/storage/memory"
	"github.com/mcoot/studentdesk/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	controller *Controller
	ctx        context.Context
	actor      model.UserID
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.controller = NewController(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
	s.actor = model.UserID(1)
}

func intPtr(v int) *int {
	return &v
}

func (s *ControllerSuite) create(first, last string) *model.Student {
	student, err := s.controller.Create(s.ctx, s.actor, model.StudentFields{FirstName: first, LastName: last})
	s.Require().NoError(err)
	return student
}

func (s *ControllerSuite) TestListEmpty() {
	list, err := s.controller.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ControllerSuite) TestCreateThenList() {
	s.create("John", "Doe")
	s.create("Jane", "Roe")

	list, err := s.controller.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("John", list[0].FirstName)
	s.Equal("Jane", list[1].FirstName)
}

func (s *ControllerSuite) TestCreateAssignsDistinctIDs() {
	a := s.create("John", "Doe")
	b := s.create("John", "Doe")
	s.NotEqual(a.ID, b.ID)
}

func (s *ControllerSuite) TestGet() {
	created := s.create("John", "Doe")

	got, err := s.controller.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.StudentFields, got.StudentFields)
}

func (s *ControllerSuite) TestGetUnknownFails() {
	_, err := s.controller.Get(s.ctx, 999)
	s.ErrorIs(err, model.ErrStudentNotFound)
}

func (s *ControllerSuite) TestUpdateReplacesFieldsKeepsID() {
	created := s.create("John", "Doe")

	updated, err := s.controller.Update(s.ctx, s.actor, created.ID, model.StudentFields{
		FirstName: "John",
		LastName:  "Doe",
		Age:       intPtr(30),
		City:      "Springfield",
	})
	s.Require().NoError(err)
	s.Equal(created.ID, updated.ID)
	s.Equal(30, *updated.Age)

	got, _ := s.controller.Get(s.ctx, created.ID)
	s.Equal("Springfield", got.City)
}

func (s *ControllerSuite) TestUpdateUnknownFails() {
	_, err := s.controller.Update(s.ctx, s.actor, 999, model.StudentFields{FirstName: "A", LastName: "B"})
	s.ErrorIs(err, model.ErrStudentNotFound)

	list, _ := s.controller.List(s.ctx)
	s.Empty(list)
}

func (s *ControllerSuite) TestDelete() {
	created := s.create("John", "Doe")
	s.Require().NoError(s.controller.Delete(s.ctx, s.actor, created.ID))

	_, err := s.controller.Get(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrStudentNotFound)
}

func (s *ControllerSuite) TestDeleteTwiceFails() {
	created := s.create("John", "Doe")
	s.Require().NoError(s.controller.Delete(s.ctx, s.actor, created.ID))

	err := s.controller.Delete(s.ctx, s.actor, created.ID)
	s.ErrorIs(err, model.ErrStudentNotFound)
}
