package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"undergraduation-admin/internal/logger"
	"undergraduation-admin/internal/models"
	"undergraduation-admin/internal/monitoring"
	"undergraduation-admin/internal/utils"

	"go.uber.org/zap"
)

const DefaultFollowupSubject = "Follow-up"

// ValidationError reports a follow-up request that cannot be sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// FollowupStore is the part of the store the follow-up flow needs.
type FollowupStore interface {
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	AddCommunication(ctx context.Context, c *models.Communication) error
}

// FollowupService sends follow-up e-mails and records them on the student's
// timeline. Provider failures never fail the request: the message is stored
// with a skipped outcome and the reason.
type FollowupService struct {
	store  FollowupStore
	mailer Mailer
	now    func() time.Time
}

func NewFollowupService(store FollowupStore, mailer Mailer) *FollowupService {
	return &FollowupService{store: store, mailer: mailer, now: time.Now}
}

// Send returns an error only for invalid input, an unknown student or a
// storage failure.
func (s *FollowupService) Send(ctx context.Context, req models.FollowupRequest) (*models.FollowupResponse, error) {
	studentID := strings.TrimSpace(req.StudentID)
	text := utils.PlainText(req.Body)
	if studentID == "" || text == "" {
		return nil, &ValidationError{Message: "Missing studentId or body"}
	}

	student, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	recipient := strings.TrimSpace(req.To)
	if recipient == "" {
		recipient = student.Email
	}
	if recipient == "" {
		return nil, &ValidationError{Message: "No recipient email available"}
	}
	if _, err := mail.ParseAddress(recipient); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("Invalid recipient %q", recipient)}
	}

	subject := utils.SanitizeHTML(req.Subject)
	if subject == "" {
		subject = DefaultFollowupSubject
	}

	msg := Message{CustomerID: student.ID, To: recipient, Subject: subject, Text: text}
	if strings.Contains(req.Body, "<") {
		msg.HTML = utils.SafeBody(req.Body)
	}

	outcome := models.Sent()
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.Log.Warn("follow-up delivery skipped",
			zap.String("student", student.ID),
			zap.String("provider", s.mailer.Name()),
			zap.Error(err),
		)
		outcome = models.Skipped(err.Error())
	}

	comm := &models.Communication{
		StudentID: student.ID,
		Channel:   models.ChannelEmail,
		Subject:   subject,
		Body:      text,
		CreatedAt: s.now(),
		CreatedBy: s.mailer.Name(),
		Delivery:  &outcome,
	}
	if err := s.store.AddCommunication(ctx, comm); err != nil {
		return nil, fmt.Errorf("record follow-up: %w", err)
	}

	monitoring.FollowupOutcomes.WithLabelValues(s.mailer.Name(), string(outcome.Status)).Inc()
	return &models.FollowupResponse{ID: comm.ID, To: recipient, Outcome: outcome}, nil
}
