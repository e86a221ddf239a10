package models

import (
	"time"
)

// Status is a funnel stage. The four stages are ordered.
type Status string

const (
	StatusExploring    Status = "Exploring"
	StatusShortlisting Status = "Shortlisting"
	StatusApplying     Status = "Applying"
	StatusSubmitted    Status = "Submitted"
)

// StatusOrder is the fixed funnel ordering.
var StatusOrder = []Status{StatusExploring, StatusShortlisting, StatusApplying, StatusSubmitted}

// Index returns the funnel position of s, or -1 for an unknown stage.
func (s Status) Index() int {
	for i, st := range StatusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Status) Valid() bool {
	return s.Index() >= 0
}

// Progress is the fraction of the funnel completed, (index+1)/4. Unknown stages report 0.
func (s Status) Progress() float64 {
	i := s.Index()
	if i < 0 {
		return 0
	}
	return float64(i+1) / float64(len(StatusOrder))
}

type Student struct {
	ID                       string     `json:"id" bson:"_id"`
	Name                     string     `json:"name" bson:"name"`
	Email                    string     `json:"email" bson:"email"`
	Phone                    string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Grade                    string     `json:"grade,omitempty" bson:"grade,omitempty"`
	Country                  string     `json:"country" bson:"country"`
	Status                   Status     `json:"status" bson:"status"`
	LastActiveAt             time.Time  `json:"lastActiveAt" bson:"lastActiveAt"`
	CreatedAt                time.Time  `json:"createdAt" bson:"createdAt"`
	Flags                    Flags      `json:"flags" bson:"flags"`
	CommunicationsCount      int        `json:"communicationsCount" bson:"communicationsCount"`
	LastCommunicationAt      *time.Time `json:"lastCommunicationAt,omitempty" bson:"lastCommunicationAt,omitempty"`
	LastCommunicationChannel Channel    `json:"lastCommunicationChannel,omitempty" bson:"lastCommunicationChannel,omitempty"`
}

type UpsertStudentRequest struct {
	Name         string     `json:"name" binding:"required"`
	Email        string     `json:"email" binding:"required,email"`
	Phone        string     `json:"phone"`
	Grade        string     `json:"grade"`
	Country      string     `json:"country"`
	Status       Status     `json:"status" binding:"required"`
	LastActiveAt *time.Time `json:"lastActiveAt"`
	Flags        Flags      `json:"flags"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

// StudentUpdate carries the mutable fields of a student. Nil fields are left untouched.
type StudentUpdate struct {
	Name         *string
	Email        *string
	Phone        *string
	Grade        *string
	Country      *string
	Status       *Status
	LastActiveAt *time.Time
	Flags        Flags
}

// StudentDetail is the student profile page payload.
type StudentDetail struct {
	Student        *Student        `json:"student"`
	Interactions   []Interaction   `json:"interactions"`
	Communications []Communication `json:"communications"`
	Notes          []Note          `json:"notes"`
	Tasks          []Task          `json:"tasks"`
	Summary        StudentSummary  `json:"summary"`
}

type StudentListResponse struct {
	Students []Student      `json:"students"`
	Stats    DirectoryStats `json:"stats"`
}
