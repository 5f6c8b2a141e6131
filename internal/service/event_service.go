package service

import (
	"context"
	"strings"
	"time"

	"go-gin-event-manager/internal/model"
	"go-gin-event-manager/internal/queue"
	"go-gin-event-manager/internal/repository"
	apperrors "go-gin-event-manager/pkg/app_errors"
	"go-gin-event-manager/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxPageSize = 100

	publishTimeout = 2 * time.Second
)

type EventService interface {
	List(ctx context.Context, filter model.EventFilter) (*model.Page[model.Event], error)
	Get(ctx context.Context, id uuid.UUID) (*model.Event, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*model.Event, error)
	Create(ctx context.Context, params model.CreateEventParams) (*model.Event, error)
	// Update 一般欄位更新，不檢查狀態流程
	Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	// Remove 永久刪除，通知一併 cascade 刪除
	Remove(ctx context.Context, id uuid.UUID) error
	// Publish 只有 draft 可以發布
	Publish(ctx context.Context, id uuid.UUID) (*model.Event, error)
	Archive(ctx context.Context, id uuid.UUID) (*model.Event, error)
	// Duplicate 複製為新的 draft 活動，不複製通知；覆寫欄位在同一個 transaction 內套用
	Duplicate(ctx context.Context, id uuid.UUID, params model.DuplicateEventParams) (*model.Event, error)
	Cancel(ctx context.Context, id uuid.UUID, params model.CancelEventParams) (*model.Event, error)
}

type EventServiceImpl struct {
	tx            repository.TxManager
	repo          repository.EventRepository
	notifications NotificationService
	activity      queue.ActivityQueue
	log           *zap.Logger
}

func NewEventService(tx repository.TxManager, repo repository.EventRepository, notifications NotificationService, activity queue.ActivityQueue) EventService {
	return &EventServiceImpl{
		tx:            tx,
		repo:          repo,
		notifications: notifications,
		activity:      activity,
		log:           logger.WithComponent("service").With(zap.String("service", "event")),
	}
}

func (s *EventServiceImpl) List(ctx context.Context, filter model.EventFilter) (*model.Page[model.Event], error) {
	if filter.Page < 1 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "page must be at least 1")
	}
	if filter.PageSize < 1 || filter.PageSize > MaxPageSize {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "pageSize must be between 1 and %d", MaxPageSize)
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown status %q", *filter.Status)
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "from must not be after to")
	}
	filter.Search = strings.TrimSpace(filter.Search)

	events, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return model.NewPage(events, total, filter.Page, filter.PageSize), nil
}

func (s *EventServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EventServiceImpl) FindByDateRange(ctx context.Context, from, to time.Time) ([]*model.Event, error) {
	if from.After(to) {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "from must not be after to")
	}
	return s.repo.FindByDateRange(ctx, from, to)
}

func (s *EventServiceImpl) Create(ctx context.Context, params model.CreateEventParams) (*model.Event, error) {
	if err := model.ValidateName(params.Name); err != nil {
		return nil, err
	}
	if err := model.ValidateDateRange(params.StartDate, params.EndDate); err != nil {
		return nil, err
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown status %q", *params.Status)
	}
	params.Name = strings.TrimSpace(params.Name)

	var created *model.Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		event, err := s.repo.Create(ctx, params)
		if err != nil {
			return err
		}
		if err := s.notify(ctx, event, model.LifecycleCreated); err != nil {
			return err
		}
		created = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishActivity(ctx, created.ID, model.LifecycleCreated)
	return created, nil
}

func (s *EventServiceImpl) Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	if params.Name != nil {
		if err := model.ValidateName(*params.Name); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(*params.Name)
		params.Name = &name
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown status %q", *params.Status)
	}

	var updated *model.Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		// 只改其中一個日期時，要和既有的另一個日期比較
		if params.TouchesDates() {
			start := current.StartDate
			if params.StartDate != nil {
				start = *params.StartDate
			}
			end := current.EndDate
			if params.EndDate != nil {
				end = params.EndDate
			}
			if err := model.ValidateDateRange(start, end); err != nil {
				return err
			}
		}

		event, err := s.repo.Update(ctx, id, params)
		if err != nil {
			return err
		}
		if params.IsSignificant() {
			if err := s.notify(ctx, event, model.LifecycleUpdated); err != nil {
				return err
			}
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	if params.IsSignificant() {
		s.publishActivity(ctx, id, model.LifecycleUpdated)
	}
	return updated, nil
}

func (s *EventServiceImpl) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishActivity(ctx, id, model.ActivityDeleted)
	return nil
}

func (s *EventServiceImpl) Publish(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return s.transition(ctx, id, model.EventStatusPublished, model.LifecyclePublished)
}

func (s *EventServiceImpl) Archive(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return s.transition(ctx, id, model.EventStatusArchived, model.LifecycleArchived)
}

// transition 依狀態流程變更狀態並發出對應通知
func (s *EventServiceImpl) transition(ctx context.Context, id uuid.UUID, target model.EventStatus, action model.LifecycleAction) (*model.Event, error) {
	var updated *model.Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		event, err := s.transitionTx(ctx, id, target, action)
		if err != nil {
			return err
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishActivity(ctx, id, action)
	return updated, nil
}

func (s *EventServiceImpl) transitionTx(ctx context.Context, id uuid.UUID, target model.EventStatus, action model.LifecycleAction) (*model.Event, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(target) {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidTransition, "cannot move event from %s to %s", current.Status, target)
	}

	event, err := s.repo.Update(ctx, id, model.UpdateEventParams{Status: &target})
	if err != nil {
		return nil, err
	}
	if err := s.notify(ctx, event, action); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventServiceImpl) Duplicate(ctx context.Context, id uuid.UUID, params model.DuplicateEventParams) (*model.Event, error) {
	if params.Name != nil {
		if err := model.ValidateName(*params.Name); err != nil {
			return nil, err
		}
	}

	var duplicated *model.Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		source, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		draft := model.EventStatusDraft
		name := copyName(source.Name)
		if params.Name != nil {
			name = strings.TrimSpace(*params.Name)
		}
		tags := make([]string, len(source.Tags))
		copy(tags, source.Tags)
		if params.Tags != nil {
			tags = append([]string{}, *params.Tags...)
		}

		event, err := s.repo.Create(ctx, model.CreateEventParams{
			Name:        name,
			Description: source.Description,
			Status:      &draft,
			StartDate:   source.StartDate,
			EndDate:     source.EndDate,
			Location:    source.Location,
			Tags:        tags,
		})
		if err != nil {
			return err
		}
		if err := s.notify(ctx, event, model.LifecycleDuplicated); err != nil {
			return err
		}
		duplicated = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishActivity(ctx, duplicated.ID, model.LifecycleDuplicated)
	return duplicated, nil
}

// copyName 加上 " (Copy)"，超過長度上限時截斷原名稱
func copyName(name string) string {
	limit := model.MaxEventNameLength - len([]rune(model.CopySuffix))
	runes := []rune(name)
	if len(runes) > limit {
		name = strings.TrimSpace(string(runes[:limit]))
	}
	return name + model.CopySuffix
}

func (s *EventServiceImpl) Cancel(ctx context.Context, id uuid.UUID, params model.CancelEventParams) (*model.Event, error) {
	if params.Occurrence != nil {
		// 單次場次取消尚未支援，整個活動都會封存
		s.log.Info("cancel occurrence ignored, archiving whole event",
			zap.String("event_id", id.String()),
			zap.Time("occurrence", *params.Occurrence))
	}

	reason := ""
	if params.Reason != nil {
		reason = strings.TrimSpace(*params.Reason)
	}

	var cancelled *model.Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		event, err := s.transitionTx(ctx, id, model.EventStatusArchived, model.LifecycleArchived)
		if err != nil {
			return err
		}
		if reason != "" {
			if _, err := s.notifications.CreateCancellationNotification(ctx, event.ID, event.Name, reason); err != nil {
				return err
			}
			event.NotificationCount++
		}
		cancelled = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishActivity(ctx, id, model.LifecycleCancelled)
	return cancelled, nil
}

// notify 在同一個 transaction 內寫入生命週期通知
func (s *EventServiceImpl) notify(ctx context.Context, event *model.Event, action model.LifecycleAction) error {
	if _, err := s.notifications.CreateLifecycleNotification(ctx, event.ID, event.Name, action); err != nil {
		return err
	}
	// RETURNING 的資料早於通知寫入，補上計數
	event.NotificationCount++
	return nil
}

// publishActivity commit 後送出活動紀錄，失敗只記錄 log
func (s *EventServiceImpl) publishActivity(ctx context.Context, id uuid.UUID, action model.LifecycleAction) {
	if s.activity == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.activity.Publish(ctx, model.NewEventActivity(id, action)); err != nil {
		s.log.Warn("publish activity failed",
			zap.String("event_id", id.String()),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}
