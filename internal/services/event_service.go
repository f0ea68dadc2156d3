package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/math-practice-service/internal/events"
	"github.com/SAP-F-2025/math-practice-service/internal/models"
)

// EventService turns domain state changes into published events.
type EventService interface {
	NotifyAssignmentPublished(ctx context.Context, assignment *models.Assignment) error
	NotifyResultSubmitted(ctx context.Context, result *models.Result) error
}

type eventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewEventService(eventPublisher events.EventPublisher, logger *slog.Logger) EventService {
	return &eventService{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *eventService) NotifyAssignmentPublished(ctx context.Context, assignment *models.Assignment) error {
	s.logger.Info("Publishing assignment published event", "assignment_id", assignment.ID)

	event := events.NewAssignmentPublishedEvent(events.AssignmentPublishedEvent{
		AssignmentID: assignment.ID,
		Title:        assignment.Title,
		TeacherID:    assignment.TeacherID,
		DueDate:      assignment.DueDate,
		TimeLimit:    assignment.TimeLimit,
		ProblemCount: len(assignment.Problems),
		TotalPoints:  assignment.TotalPoints,
		StudentIDs:   assignment.StudentIDs(),
	})
	return s.eventPublisher.Publish(ctx, event)
}

func (s *eventService) NotifyResultSubmitted(ctx context.Context, result *models.Result) error {
	s.logger.Debug("Publishing result submitted event", "result_id", result.ID)

	event := events.NewResultSubmittedEvent(events.ResultSubmittedEvent{
		ResultID:      result.ID,
		UserID:        result.UserID,
		ProblemID:     result.ProblemID,
		AssignmentID:  result.AssignmentID,
		IsCorrect:     result.IsCorrect,
		PointsEarned:  result.PointsEarned,
		AttemptNumber: result.AttemptNumber,
		TimeSpent:     result.TimeSpent,
	})
	return s.eventPublisher.Publish(ctx, event)
}
