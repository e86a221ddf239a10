package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"undergraduation-admin/internal/middleware"
	"undergraduation-admin/internal/models"
	"undergraduation-admin/internal/repository"

	"github.com/gin-gonic/gin"
)

// TimelineHandler serves the per-student records: interactions,
// communications, internal notes and tasks.
type TimelineHandler struct {
	store repository.Store
	now   func() time.Time
}

func NewTimelineHandler(store repository.Store) *TimelineHandler {
	return &TimelineHandler{store: store, now: time.Now}
}

// author is the signed-in staff member's email, or empty.
func author(c *gin.Context) string {
	if sess, ok := middleware.CurrentSession(c); ok {
		return sess.Email
	}
	return ""
}

// requireStudent writes a 404 and returns false when the path student does
// not exist.
func (h *TimelineHandler) requireStudent(c *gin.Context) bool {
	ctx, cancel := requestContext(c)
	defer cancel()
	if _, err := h.store.GetStudent(ctx, c.Param("id")); err != nil {
		storeFailure(c, err, "Student")
		return false
	}
	return true
}

func (h *TimelineHandler) stamp(at *time.Time) time.Time {
	if at != nil && !at.IsZero() {
		return *at
	}
	return h.now()
}

// ListInteractions godoc
// @Summary Student activity timeline
// @Tags timeline
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Success 200 {array} models.Interaction
// @Router /students/{id}/interactions [get]
func (h *TimelineHandler) ListInteractions(c *gin.Context) {
	if !h.requireStudent(c) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.store.ListInteractions(ctx, c.Param("id"))
	if err != nil {
		storeFailure(c, err, "interactions")
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateInteraction godoc
// @Summary Record a student interaction
// @Tags timeline
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param body body models.CreateInteractionRequest true "Interaction"
// @Success 201 {object} models.Interaction
// @Router /students/{id}/interactions [post]
func (h *TimelineHandler) CreateInteraction(c *gin.Context) {
	var req models.CreateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.Type.Valid() {
		badRequest(c, fmt.Errorf("unknown interaction type %q", req.Type))
		return
	}
	if !h.requireStudent(c) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	i := &models.Interaction{
		StudentID: c.Param("id"),
		Type:      req.Type,
		Metadata:  req.Metadata,
		CreatedAt: h.stamp(req.CreatedAt),
	}
	if err := h.store.AddInteraction(ctx, i); err != nil {
		storeFailure(c, err, "interaction")
		return
	}
	c.JSON(http.StatusCreated, i)
}

// ListCommunications godoc
// @Summary Communication log of a student
// @Tags timeline
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Success 200 {array} models.Communication
// @Router /students/{id}/communications [get]
func (h *TimelineHandler) ListCommunications(c *gin.Context) {
	if !h.requireStudent(c) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.store.ListCommunications(ctx, c.Param("id"))
	if err != nil {
		storeFailure(c, err, "communications")
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateCommunication godoc
// @Summary Log an email, SMS or call
// @Tags timeline
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param body body models.CreateCommunicationRequest true "Communication"
// @Success 201 {object} models.Communication
// @Router /students/{id}/communications [post]
func (h *TimelineHandler) CreateCommunication(c *gin.Context) {
	var req models.CreateCommunicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.Channel.Valid() {
		badRequest(c, fmt.Errorf("unknown channel %q", req.Channel))
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		badRequest(c, fmt.Errorf("body is required"))
		return
	}
	if !h.requireStudent(c) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comm := &models.Communication{
		StudentID: c.Param("id"),
		Channel:   req.Channel,
		Subject:   strings.TrimSpace(req.Subject),
		Body:      strings.TrimSpace(req.Body),
		CreatedAt: h.stamp(req.CreatedAt),
		CreatedBy: author(c),
	}
	if err := h.store.AddCommunication(ctx, comm); err != nil {
		storeFailure(c, err, "communication")
		return
	}
	c.JSON(http.StatusCreated, comm)
}

// UpdateCommunication godoc
// @Summary Edit a logged communication
// @Tags timeline
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param commId path string true "Communication ID"
// @Param body body models.UpdateCommunicationRequest true "Changes"
// @Success 200 {object} models.Communication
// @Router /students/{id}/communications/{commId} [patch]
func (h *TimelineHandler) UpdateCommunication(c *gin.Context) {
	var req models.UpdateCommunicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comm, err := h.store.UpdateCommunication(ctx, c.Param("id"), c.Param("commId"), req)
	if err != nil {
		storeFailure(c, err, "Communication")
		return
	}
	c.JSON(http.StatusOK, comm)
}

// DeleteCommunication godoc
// @Summary Delete a logged communication
// @Tags timeline
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param commId path string true "Communication ID"
// @Success 204
// @Router /students/{id}/communications/{commId} [delete]
func (h *TimelineHandler) DeleteCommunication(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.store.DeleteCommunication(ctx, c.Param("id"), c.Param("commId")); err != nil {
		storeFailure(c, err, "Communication")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListNotes godoc
// @Summary Internal notes on a student
// @Tags timeline
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Success 200 {array} models.Note
// @Router /students/{id}/notes [get]
func (h *TimelineHandler) ListNotes(c *gin.Context) {
	if !h.requireStudent(c) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.store.ListNotes(ctx, c.Param("id"))
	if err != nil {
		storeFailure(c, err, "notes")
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateNote godoc
// @Summary Add an internal note
// @Tags timeline
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param body body models.NoteRequest true "Note"
// @Success 201 {object} models.Note
// @Router /students/{id}/notes [post]
func (h *TimelineHandler) CreateNote(c *gin.Context) {
	var req models.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		badRequest(c, fmt.Errorf("content is required"))
		return
	}
	if !h.requireStudent(c) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	note := &models.Note{
		StudentID: c.Param("id"),
		Content:   content,
		CreatedAt: h.now(),
		CreatedBy: author(c),
	}
	if err := h.store.AddNote(ctx, note); err != nil {
		storeFailure(c, err, "note")
		return
	}
	c.JSON(http.StatusCreated, note)
}

// UpdateNote godoc
// @Summary Edit an internal note
// @Tags timeline
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param noteId path string true "Note ID"
// @Param body body models.NoteRequest true "Note"
// @Success 200 {object} models.Note
// @Router /students/{id}/notes/{noteId} [patch]
func (h *TimelineHandler) UpdateNote(c *gin.Context) {
	var req models.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		badRequest(c, fmt.Errorf("content is required"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	note, err := h.store.UpdateNote(ctx, c.Param("id"), c.Param("noteId"), content)
	if err != nil {
		storeFailure(c, err, "Note")
		return
	}
	c.JSON(http.StatusOK, note)
}

// DeleteNote godoc
// @Summary Delete an internal note
// @Tags timeline
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param noteId path string true "Note ID"
// @Success 204
// @Router /students/{id}/notes/{noteId} [delete]
func (h *TimelineHandler) DeleteNote(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.store.DeleteNote(ctx, c.Param("id"), c.Param("noteId")); err != nil {
		storeFailure(c, err, "Note")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTasks godoc
// @Summary Tasks and reminders for a student
// @Tags timeline
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Success 200 {array} models.Task
// @Router /students/{id}/tasks [get]
func (h *TimelineHandler) ListTasks(c *gin.Context) {
	if !h.requireStudent(c) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.store.ListTasks(ctx, c.Param("id"))
	if err != nil {
		storeFailure(c, err, "tasks")
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateTask godoc
// @Summary Schedule a task
// @Tags timeline
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param body body models.CreateTaskRequest true "Task"
// @Success 201 {object} models.Task
// @Router /students/{id}/tasks [post]
func (h *TimelineHandler) CreateTask(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		badRequest(c, fmt.Errorf("title is required"))
		return
	}
	if !h.requireStudent(c) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	assignee := strings.TrimSpace(req.Assignee)
	if assignee == "" {
		assignee = author(c)
	}
	task := &models.Task{
		StudentID: c.Param("id"),
		Title:     title,
		DueAt:     req.DueAt,
		Status:    models.TaskPending,
		Assignee:  assignee,
		CreatedAt: h.now(),
	}
	if err := h.store.AddTask(ctx, task); err != nil {
		storeFailure(c, err, "task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTask godoc
// @Summary Edit or complete a task
// @Tags timeline
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param taskId path string true "Task ID"
// @Param body body models.TaskUpdate true "Changes"
// @Success 200 {object} models.Task
// @Router /students/{id}/tasks/{taskId} [patch]
func (h *TimelineHandler) UpdateTask(c *gin.Context) {
	var req models.TaskUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Status != nil && *req.Status != models.TaskPending && *req.Status != models.TaskDone {
		badRequest(c, fmt.Errorf("unknown task status %q", *req.Status))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	task, err := h.store.UpdateTask(ctx, c.Param("id"), c.Param("taskId"), req)
	if err != nil {
		storeFailure(c, err, "Task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags timeline
// @Security ApiKeyAuth
// @Param id path string true "Student ID"
// @Param taskId path string true "Task ID"
// @Success 204
// @Router /students/{id}/tasks/{taskId} [delete]
func (h *TimelineHandler) DeleteTask(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.store.DeleteTask(ctx, c.Param("id"), c.Param("taskId")); err != nil {
		storeFailure(c, err, "Task")
		return
	}
	c.Status(http.StatusNoContent)
}
