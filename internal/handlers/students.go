package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"undergraduation-admin/internal/directory"
	"undergraduation-admin/internal/insights"
	"undergraduation-admin/internal/models"
	"undergraduation-admin/internal/repository"

	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	store repository.Store
	now   func() time.Time
}

func NewStudentHandler(store repository.Store) *StudentHandler {
	return &StudentHandler{store: store, now: time.Now}
}

// ListStudents godoc
// @Summary Student directory
// @Description Filters by free text (name, email, country), funnel stage and quick filter. Stats always cover every student.
// @Tags students
// @Security ApiKeyAuth
// @Param q query string false "Search text"
// @Param status query string false "Exploring, Shortlisting, Applying or Submitted"
// @Param quick query string false "not7, highIntent or essayHelp"
// @Param fuzzy query bool false "Rank by fuzzy match"
// @Success 200 {object} models.StudentListResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	q := directory.Query{
		Text:   c.Query("q"),
		Status: models.Status(c.Query("status")),
		Quick:  c.Query("quick"),
	}
	if q.Status != "" && !q.Status.Valid() {
		badRequest(c, fmt.Errorf("unknown status %q", q.Status))
		return
	}
	if !directory.ValidQuick(q.Quick) {
		badRequest(c, fmt.Errorf("unknown quick filter %q", q.Quick))
		return
	}
	if v := c.Query("fuzzy"); v != "" {
		fuzzy, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, fmt.Errorf("fuzzy must be a boolean"))
			return
		}
		q.Fuzzy = fuzzy
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	students, err := h.store.ListStudents(ctx)
	if err != nil {
		storeFailure(c, err, "students")
		return
	}

	now := h.now()
	c.JSON(http.StatusOK, models.StudentListResponse{
		Students: directory.Filter(students, q, now),
		Stats:    directory.Stats(students, now),
	})
}

// GetStudent godoc
// @Summary Student profile with timeline and summary
// @Tags students
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Success 200 {object} models.StudentDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := requestContext(c)
	defer cancel()

	student, err := h.store.GetStudent(ctx, id)
	if err != nil {
		storeFailure(c, err, "Student")
		return
	}

	interactions, err := h.store.ListInteractions(ctx, id)
	if err != nil {
		storeFailure(c, err, "interactions")
		return
	}
	comms, err := h.store.ListCommunications(ctx, id)
	if err != nil {
		storeFailure(c, err, "communications")
		return
	}
	notes, err := h.store.ListNotes(ctx, id)
	if err != nil {
		storeFailure(c, err, "notes")
		return
	}
	tasks, err := h.store.ListTasks(ctx, id)
	if err != nil {
		storeFailure(c, err, "tasks")
		return
	}

	c.JSON(http.StatusOK, models.StudentDetail{
		Student:        student,
		Interactions:   interactions,
		Communications: comms,
		Notes:          notes,
		Tasks:          tasks,
		Summary:        insights.SummarizeStudent(*student, interactions, comms, tasks, h.now()),
	})
}

// UpsertStudent godoc
// @Summary Create or replace a student profile
// @Tags students
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param body body models.UpsertStudentRequest true "Profile"
// @Success 200 {object} models.Student
// @Success 201 {object} models.Student
// @Failure 400 {object} models.ErrorResponse
// @Router /students/{id} [put]
func (h *StudentHandler) UpsertStudent(c *gin.Context) {
	var req models.UpsertStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.Status.Valid() {
		badRequest(c, fmt.Errorf("unknown status %q", req.Status))
		return
	}

	id := c.Param("id")
	ctx, cancel := requestContext(c)
	defer cancel()

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	upd := models.StudentUpdate{
		Name:         &name,
		Email:        &email,
		Phone:        &req.Phone,
		Grade:        &req.Grade,
		Country:      &req.Country,
		Status:       &req.Status,
		LastActiveAt: req.LastActiveAt,
		Flags:        req.Flags,
	}

	student, err := h.store.UpdateStudent(ctx, id, upd)
	if err == nil {
		c.JSON(http.StatusOK, student)
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		storeFailure(c, err, "Student")
		return
	}

	now := h.now()
	created := &models.Student{
		ID:        id,
		Name:      name,
		Email:     email,
		Phone:     req.Phone,
		Grade:     req.Grade,
		Country:   req.Country,
		Status:    req.Status,
		CreatedAt: now,
		Flags:     models.NewFlags(req.Flags...),
	}
	if req.LastActiveAt != nil {
		created.LastActiveAt = *req.LastActiveAt
	}
	if err := h.store.UpsertStudent(ctx, created); err != nil {
		storeFailure(c, err, "Student")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateStatus godoc
// @Summary Move a student to another funnel stage
// @Tags students
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param body body models.UpdateStatusRequest true "New stage"
// @Success 200 {object} models.Student
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /students/{id}/status [patch]
func (h *StudentHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.Status.Valid() {
		badRequest(c, fmt.Errorf("unknown status %q", req.Status))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	student, err := h.store.UpdateStudent(ctx, c.Param("id"), models.StudentUpdate{Status: &req.Status})
	if err != nil {
		storeFailure(c, err, "Student")
		return
	}
	c.JSON(http.StatusOK, student)
}
