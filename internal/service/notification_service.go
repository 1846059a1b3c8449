package service

import (
	"context"
	"time"

	"gravoplus/internal/dto"
	"gravoplus/internal/model"
	"gravoplus/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationPublisher pushes a freshly persisted notification to connected
// sockets. Delivery is at-most-once best-effort; the list endpoint is the
// catch-up path, so publish failures are logged and swallowed.
type NotificationPublisher interface {
	Publish(ctx context.Context, n dto.NotificationResponse) error
}

type NotificationService interface {
	Emit(ctx context.Context, typ, title, message string, triggeredBy *uuid.UUID)
	List(ctx context.Context, limit int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) error
	CountUnread(ctx context.Context) (int64, error)
}

type notificationService struct {
	repo      repository.NotificationRepository
	publisher NotificationPublisher
}

func NewNotificationService(repo repository.NotificationRepository, publisher NotificationPublisher) NotificationService {
	return &notificationService{repo: repo, publisher: publisher}
}

// Emit persists the notification, then publishes it. Persist-then-publish
// keeps the snapshot endpoint consistent with what sockets may have seen.
// Emit never fails the calling workflow: a devis stays validated even if its
// notification is lost.
func (s *notificationService) Emit(ctx context.Context, typ, title, message string, triggeredBy *uuid.UUID) {
	n := &model.Notification{
		Type:        typ,
		Title:       title,
		Message:     message,
		TriggeredBy: triggeredBy,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Error().Err(err).Str("type", typ).Msg("notification: persist failed")
		return
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, notificationToResponse(n)); err != nil {
		log.Warn().Err(err).Str("type", typ).Msg("notification: publish failed")
	}
}

func (s *notificationService) List(ctx context.Context, limit int) ([]dto.NotificationResponse, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	items, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, len(items))
	for i := range items {
		out[i] = notificationToResponse(&items[i])
	}
	return out, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context) error {
	return s.repo.MarkAllRead(ctx)
}

func (s *notificationService) CountUnread(ctx context.Context) (int64, error) {
	return s.repo.CountUnread(ctx)
}

func notificationToResponse(n *model.Notification) dto.NotificationResponse {
	resp := dto.NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if n.TriggeredBy != nil {
		id := n.TriggeredBy.String()
		resp.TriggeredBy = &id
	}
	return resp
}
