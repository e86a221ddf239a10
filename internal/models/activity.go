package models

import "time"

type InteractionType string

const (
	InteractionLogin          InteractionType = "login"
	InteractionAIQuestion     InteractionType = "ai_question"
	InteractionDocumentUpload InteractionType = "document_upload"
)

func (t InteractionType) Valid() bool {
	switch t {
	case InteractionLogin, InteractionAIQuestion, InteractionDocumentUpload:
		return true
	}
	return false
}

type Interaction struct {
	ID        string                 `json:"id" bson:"_id"`
	StudentID string                 `json:"studentId" bson:"studentId"`
	Type      InteractionType        `json:"type" bson:"type"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
}

type CreateInteractionRequest struct {
	Type      InteractionType        `json:"type" binding:"required"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt *time.Time             `json:"createdAt"`
}

type Note struct {
	ID        string    `json:"id" bson:"_id"`
	StudentID string    `json:"studentId" bson:"studentId"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	CreatedBy string    `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
}

type NoteRequest struct {
	Content string `json:"content" binding:"required"`
}

type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskDone    TaskStatus = "done"
)

type Task struct {
	ID        string     `json:"id" bson:"_id"`
	StudentID string     `json:"studentId" bson:"studentId"`
	Title     string     `json:"title" bson:"title"`
	DueAt     *time.Time `json:"dueAt,omitempty" bson:"dueAt,omitempty"`
	Status    TaskStatus `json:"status" bson:"status"`
	Assignee  string     `json:"assignee,omitempty" bson:"assignee,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}

type CreateTaskRequest struct {
	Title    string     `json:"title" binding:"required"`
	DueAt    *time.Time `json:"dueAt"`
	Assignee string     `json:"assignee"`
}

// TaskUpdate is used for PATCH requests and repository updates. Nil fields are left untouched.
type TaskUpdate struct {
	Title    *string     `json:"title"`
	DueAt    *time.Time  `json:"dueAt"`
	Status   *TaskStatus `json:"status"`
	Assignee *string     `json:"assignee"`
}
