package models

import "time"

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelCall  Channel = "call"
)

// Channels is the fixed channel ordering used by trend series and charts.
var Channels = []Channel{ChannelEmail, ChannelSMS, ChannelCall}

func (c Channel) Valid() bool {
	for _, ch := range Channels {
		if ch == c {
			return true
		}
	}
	return false
}

type Communication struct {
	ID        string           `json:"id" bson:"_id"`
	StudentID string           `json:"studentId" bson:"studentId"`
	Channel   Channel          `json:"channel" bson:"channel"`
	Subject   string           `json:"subject,omitempty" bson:"subject,omitempty"`
	Body      string           `json:"body" bson:"body"`
	CreatedAt time.Time        `json:"createdAt" bson:"createdAt"`
	CreatedBy string           `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	Delivery  *DeliveryOutcome `json:"delivery,omitempty" bson:"delivery,omitempty"`
}

// CommsByStudent maps a student id to that student's communications.
type CommsByStudent map[string][]Communication

type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "sent"
	DeliverySkipped DeliveryStatus = "skipped"
)

// DeliveryOutcome is the result of handing a message to the messaging provider.
// Reason is set only when the message was skipped.
type DeliveryOutcome struct {
	Status DeliveryStatus `json:"status" bson:"status"`
	Reason string         `json:"reason,omitempty" bson:"reason,omitempty"`
}

func Sent() DeliveryOutcome {
	return DeliveryOutcome{Status: DeliverySent}
}

func Skipped(reason string) DeliveryOutcome {
	return DeliveryOutcome{Status: DeliverySkipped, Reason: reason}
}

func (o DeliveryOutcome) IsSent() bool {
	return o.Status == DeliverySent
}

type CreateCommunicationRequest struct {
	Channel   Channel    `json:"channel" binding:"required"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body" binding:"required"`
	CreatedAt *time.Time `json:"createdAt"`
}

type UpdateCommunicationRequest struct {
	Subject *string `json:"subject"`
	Body    *string `json:"body"`
}

type FollowupRequest struct {
	StudentID string `json:"studentId"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

type FollowupResponse struct {
	ID      string          `json:"id"`
	To      string          `json:"to"`
	Outcome DeliveryOutcome `json:"outcome"`
}
