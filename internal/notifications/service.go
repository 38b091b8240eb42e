package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
)

// NotificationDTO is the API shape of one in-app notification.
type NotificationDTO struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      *string    `json:"link,omitempty"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ListDTO is one notification page plus the unread counter.
type ListDTO struct {
	Notifications []NotificationDTO `json:"notifications"`
	UnreadCount   int64             `json:"unreadCount"`
	NextCursor    string            `json:"nextCursor,omitempty"`
}

// Service exposes the user-scoped notification surface.
type Service interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, message string, link *string) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, cursor string, limit int) (*ListDTO, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs a notification service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification repository required")
	}
	return &service{repo: repo}, nil
}

// Notify records an in-app notification for the user.
func (s *service) Notify(ctx context.Context, userID uuid.UUID, kind, title, message string, link *string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(kind) == "" || strings.TrimSpace(title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification type and title are required")
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
		Link:    link,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert notification")
	}
	return nil
}

// List pages through the user's notifications.
func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, cursor string, limit int) (*ListDTO, error) {
	page, err := s.repo.ListForUser(ctx, userID, unreadOnly, cursor, limit)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}

	dtos := make([]NotificationDTO, len(page.Items))
	for i, item := range page.Items {
		dtos[i] = NotificationDTO{
			ID:        item.ID,
			Type:      item.Type,
			Title:     item.Title,
			Message:   item.Message,
			Link:      item.Link,
			ReadAt:    item.ReadAt,
			CreatedAt: item.CreatedAt,
		}
	}
	return &ListDTO{
		Notifications: dtos,
		UnreadCount:   unread,
		NextCursor:    page.NextCursor,
	}, nil
}

// MarkRead stamps one notification. Users only touch their own rows.
func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
	}
	if notification.ReadAt != nil {
		return nil
	}

	now := time.Now().UTC()
	if err := s.repo.Update(ctx, notificationID, map[string]any{"read_at": now}); err != nil {
		return err
	}
	return nil
}

// MarkAllRead stamps every unread notification for the user.
func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return nil
}
