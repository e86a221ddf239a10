package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"undergraduation-admin/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique field is already taken.
var ErrDuplicate = errors.New("duplicate")

type StudentStore interface {
	UpsertStudent(ctx context.Context, s *models.Student) error
	ListStudents(ctx context.Context) ([]models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	UpdateStudent(ctx context.Context, id string, upd models.StudentUpdate) (*models.Student, error)
	SetStudentFlags(ctx context.Context, id string, flags models.Flags) error
}

type CommunicationStore interface {
	AddCommunication(ctx context.Context, c *models.Communication) error
	ListCommunications(ctx context.Context, studentID string) ([]models.Communication, error)
	// ListCommunicationsFor groups communications by student. A nil id list means every student.
	ListCommunicationsFor(ctx context.Context, studentIDs []string) (models.CommsByStudent, error)
	UpdateCommunication(ctx context.Context, studentID, commID string, upd models.UpdateCommunicationRequest) (*models.Communication, error)
	DeleteCommunication(ctx context.Context, studentID, commID string) error
}

type ActivityStore interface {
	AddInteraction(ctx context.Context, i *models.Interaction) error
	ListInteractions(ctx context.Context, studentID string) ([]models.Interaction, error)

	AddNote(ctx context.Context, n *models.Note) error
	ListNotes(ctx context.Context, studentID string) ([]models.Note, error)
	UpdateNote(ctx context.Context, studentID, noteID, content string) (*models.Note, error)
	DeleteNote(ctx context.Context, studentID, noteID string) error

	AddTask(ctx context.Context, t *models.Task) error
	ListTasks(ctx context.Context, studentID string) ([]models.Task, error)
	UpdateTask(ctx context.Context, studentID, taskID string, upd models.TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, studentID, taskID string) error
}

type StaffStore interface {
	CreateStaff(ctx context.Context, s *models.Staff) error
	FindStaffByEmail(ctx context.Context, email string) (*models.Staff, error)
	FindStaffByID(ctx context.Context, id string) (*models.Staff, error)
	FindStaffByGoogleID(ctx context.Context, googleID string) (*models.Staff, error)
	UpdateStaff(ctx context.Context, s *models.Staff) error
}

// Store is the storage capability the service runs on. MongoStore and
// MemoryStore implement it; Open picks one from configuration.
type Store interface {
	StudentStore
	CommunicationStore
	ActivityStore
	StaffStore
	Ping(ctx context.Context) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverMongo  = "mongo"
)

// Options configures Open.
type Options struct {
	Driver   string
	MongoURI string
	MongoDB  string
}

// Open returns the Store selected by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Driver) {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverMongo:
		return NewMongoStore(ctx, opts.MongoURI, opts.MongoDB)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*MongoStore)(nil)
)
