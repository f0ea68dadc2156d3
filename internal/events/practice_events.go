package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	eventSource  = "math-practice-service"
	eventVersion = "1.0"
)

// EventType represents the domain events the service emits
type EventType string

const (
	EventAssignmentPublished EventType = "assignment.published"
	EventResultSubmitted     EventType = "result.submitted"
)

// DomainEvent is the envelope for every published event
type DomainEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type AssignmentPublishedEvent struct {
	AssignmentID string    `json:"assignmentId"`
	Title        string    `json:"title"`
	TeacherID    string    `json:"teacherId"`
	DueDate      time.Time `json:"dueDate"`
	TimeLimit    *int      `json:"timeLimit,omitempty"`
	ProblemCount int       `json:"problemCount"`
	TotalPoints  int       `json:"totalPoints"`
	StudentIDs   []string  `json:"studentIds"`
}

type ResultSubmittedEvent struct {
	ResultID      string  `json:"resultId"`
	UserID        string  `json:"userId"`
	ProblemID     string  `json:"problemId"`
	AssignmentID  *string `json:"assignmentId,omitempty"`
	IsCorrect     bool    `json:"isCorrect"`
	PointsEarned  int     `json:"pointsEarned"`
	AttemptNumber int     `json:"attemptNumber"`
	TimeSpent     int     `json:"timeSpent"`
}

// Event factory functions

func NewAssignmentPublishedEvent(data AssignmentPublishedEvent) *DomainEvent {
	return newEvent(EventAssignmentPublished, data)
}

func NewResultSubmittedEvent(data ResultSubmittedEvent) *DomainEvent {
	return newEvent(EventResultSubmitted, data)
}

func newEvent(eventType EventType, data interface{}) *DomainEvent {
	return &DomainEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}
