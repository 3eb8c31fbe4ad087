package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/studentdesk/internal/model"
	"github.com/mcoot/studentdesk/internal/services/students"
	"github.com/mcoot/studentdesk/internal/services/validation"
	"github.com/mcoot/studentdesk/internal/web/middleware"
	"github.com/mcoot/studentdesk/internal/web/templates/layout"
	"github.com/mcoot/studentdesk/internal/web/templates/pages"
)

// Flash messages for student records
const (
	MsgStudentAdded   = "Student added successfully!"
	MsgStudentUpdated = "Student updated successfully!"
	MsgStudentDeleted = "Student deleted successfully!"
)

// StudentsHandler handles the protected student pages
type StudentsHandler struct {
	controller *students.Controller
	logger     *slog.Logger
}

// NewStudentsHandler creates a new StudentsHandler
func NewStudentsHandler(controller *students.Controller, logger *slog.Logger) *StudentsHandler {
	return &StudentsHandler{
		controller: controller,
		logger:     logger,
	}
}

// Index renders the student list with an empty create form
func (h *StudentsHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, r, pages.StudentForm{})
}

// Create handles the create form on the list page
func (h *StudentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderIndex(w, r, pages.StudentForm{})
		return
	}

	fields, err := validation.ValidateStudent(r.PostForm)
	if err != nil {
		errs, _ := validation.AsErrors(err)
		h.renderIndex(w, r, pages.StudentFormFromValues(r.PostForm, errs))
		return
	}

	session := middleware.GetSession(r.Context())
	if _, err := h.controller.Create(r.Context(), session.UserID, fields); err != nil {
		renderServerError(w, r, h.logger, err)
		return
	}

	middleware.SetFlash(w, layout.FlashSuccess, MsgStudentAdded)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Edit renders the edit form for one student
func (h *StudentsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	student, ok := h.loadStudent(w, r)
	if !ok {
		return
	}

	render(w, r, h.logger, http.StatusOK, pages.Update(pages.UpdateData{
		PageData: pageData(r, "Update Student"),
		Student:  student,
		Form:     pages.StudentFormFromStudent(student),
	}))
}

// Update handles the edit form submission
func (h *StudentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	student, ok := h.loadStudent(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		renderServerError(w, r, h.logger, err)
		return
	}

	fields, err := validation.ValidateStudent(r.PostForm)
	if err != nil {
		errs, _ := validation.AsErrors(err)
		render(w, r, h.logger, http.StatusOK, pages.Update(pages.UpdateData{
			PageData: pageData(r, "Update Student"),
			Student:  student,
			Form:     pages.StudentFormFromValues(r.PostForm, errs),
		}))
		return
	}

	session := middleware.GetSession(r.Context())
	if _, err := h.controller.Update(r.Context(), session.UserID, student.ID, fields); err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	middleware.SetFlash(w, layout.FlashSuccess, MsgStudentUpdated)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Delete removes a student
func (h *StudentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(r)
	if !ok {
		renderNotFound(w, r, h.logger)
		return
	}

	session := middleware.GetSession(r.Context())
	if err := h.controller.Delete(r.Context(), session.UserID, id); err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	middleware.SetFlash(w, layout.FlashInfo, MsgStudentDeleted)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *StudentsHandler) renderIndex(w http.ResponseWriter, r *http.Request, form pages.StudentForm) {
	list, err := h.controller.List(r.Context())
	if err != nil {
		renderServerError(w, r, h.logger, err)
		return
	}

	render(w, r, h.logger, http.StatusOK, pages.Index(pages.IndexData{
		PageData: pageData(r, "Students"),
		Students: list,
		Form:     form,
	}))
}

// loadStudent resolves {id}, writing a 404 or 500 page when it cannot
func (h *StudentsHandler) loadStudent(w http.ResponseWriter, r *http.Request) (*model.Student, bool) {
	id, ok := studentID(r)
	if !ok {
		renderNotFound(w, r, h.logger)
		return nil, false
	}

	student, err := h.controller.Get(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return nil, false
	}
	return student, true
}

func (h *StudentsHandler) handleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrStudentNotFound) {
		renderNotFound(w, r, h.logger)
		return
	}
	renderServerError(w, r, h.logger, err)
}

func studentID(r *http.Request) (model.StudentID, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return model.StudentID(id), true
}
