package service

import (
	"context"
	"strings"

	"go-gin-event-manager/internal/cache"
	"go-gin-event-manager/internal/model"
	"go-gin-event-manager/internal/repository"
	apperrors "go-gin-event-manager/pkg/app_errors"
	"go-gin-event-manager/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationService interface {
	CreateForEvent(ctx context.Context, eventID uuid.UUID, title string, message *string, typ model.NotificationType) (*model.Notification, error)
	// CreateLifecycleNotification 依生命週期動作產生固定內容的通知
	CreateLifecycleNotification(ctx context.Context, eventID uuid.UUID, eventName string, action model.LifecycleAction) (*model.Notification, error)
	CreateCancellationNotification(ctx context.Context, eventID uuid.UUID, eventName, reason string) (*model.Notification, error)
	// MarkAsRead 已讀時直接回傳，不寫入資料庫
	MarkAsRead(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	MarkAllReadForEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error)
	FindUnreadByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error)
	CountUnreadByEventID(ctx context.Context, eventID uuid.UUID) (int, error)
	// RefreshUnreadCount 由資料庫重算未讀數並寫回快取
	RefreshUnreadCount(ctx context.Context, eventID uuid.UUID) (int, error)
	ClearUnreadCount(ctx context.Context, eventID uuid.UUID) error
}

type NotificationServiceImpl struct {
	repo   repository.NotificationRepository
	badges cache.NotificationBadgeCache
	log    *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, badges cache.NotificationBadgeCache) NotificationService {
	return &NotificationServiceImpl{
		repo:   repo,
		badges: badges,
		log:    logger.WithComponent("service").With(zap.String("service", "notification")),
	}
}

func (s *NotificationServiceImpl) CreateForEvent(ctx context.Context, eventID uuid.UUID, title string, message *string, typ model.NotificationType) (*model.Notification, error) {
	if !typ.IsValid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidNotificationType, "%q is not one of info, warning, error, success", typ)
	}
	return s.create(ctx, model.CreateNotificationParams{
		EventID: eventID,
		Title:   title,
		Message: message,
		Type:    typ,
	})
}

func (s *NotificationServiceImpl) CreateLifecycleNotification(ctx context.Context, eventID uuid.UUID, eventName string, action model.LifecycleAction) (*model.Notification, error) {
	params, ok := model.LifecycleNotification(eventID, eventName, action)
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown lifecycle action %q", action)
	}
	return s.create(ctx, params)
}

func (s *NotificationServiceImpl) CreateCancellationNotification(ctx context.Context, eventID uuid.UUID, eventName, reason string) (*model.Notification, error) {
	return s.create(ctx, model.CancellationNotification(eventID, eventName, reason))
}

func (s *NotificationServiceImpl) create(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, apperrors.Wrap(apperrors.ErrValidationFailed, "title is required")
	}

	notification, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	// 可能仍在外層 transaction 中，直接清掉快取，下次讀取時回填
	s.invalidate(ctx, params.EventID)
	return notification, nil
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification.IsRead {
		return notification, nil
	}

	read := true
	updated, err := s.repo.Update(ctx, id, model.UpdateNotificationParams{IsRead: &read})
	if err != nil {
		return nil, err
	}

	if err := s.badges.Adjust(ctx, updated.EventID, -1); err != nil {
		s.log.Warn("adjust unread badge failed", zap.String("event_id", updated.EventID.String()), zap.Error(err))
		s.invalidate(ctx, updated.EventID)
	}
	return updated, nil
}

func (s *NotificationServiceImpl) MarkAllReadForEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error) {
	updated, err := s.repo.MarkAllReadForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.badges.Set(ctx, eventID, 0); err != nil {
		s.log.Warn("reset unread badge failed", zap.String("event_id", eventID.String()), zap.Error(err))
	}
	return updated, nil
}

func (s *NotificationServiceImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error) {
	return s.repo.FindByEventID(ctx, eventID)
}

func (s *NotificationServiceImpl) FindUnreadByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error) {
	return s.repo.FindUnreadByEventID(ctx, eventID)
}

// CountUnreadByEventID 先讀快取，miss 或快取錯誤時查資料庫並回填
func (s *NotificationServiceImpl) CountUnreadByEventID(ctx context.Context, eventID uuid.UUID) (int, error) {
	count, ok, err := s.badges.Get(ctx, eventID)
	if err != nil {
		s.log.Warn("read unread badge failed", zap.String("event_id", eventID.String()), zap.Error(err))
	}
	if err == nil && ok {
		return count, nil
	}
	return s.RefreshUnreadCount(ctx, eventID)
}

func (s *NotificationServiceImpl) RefreshUnreadCount(ctx context.Context, eventID uuid.UUID) (int, error) {
	count, err := s.repo.CountUnreadByEventID(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if err := s.badges.Set(ctx, eventID, count); err != nil {
		s.log.Warn("write unread badge failed", zap.String("event_id", eventID.String()), zap.Error(err))
	}
	return count, nil
}

func (s *NotificationServiceImpl) ClearUnreadCount(ctx context.Context, eventID uuid.UUID) error {
	return s.badges.Invalidate(ctx, eventID)
}

func (s *NotificationServiceImpl) invalidate(ctx context.Context, eventID uuid.UUID) {
	if err := s.badges.Invalidate(ctx, eventID); err != nil {
		s.log.Warn("invalidate unread badge failed", zap.String("event_id", eventID.String()), zap.Error(err))
	}
}
