package service

import (
	"context"

	"go-gin-event-manager/internal/model"
	apperrors "go-gin-event-manager/pkg/app_errors"

	"github.com/google/uuid"
)

type QuickAction string

const (
	QuickActionView      QuickAction = "view"
	QuickActionEdit      QuickAction = "edit"
	QuickActionDuplicate QuickAction = "duplicate"
	QuickActionCancel    QuickAction = "cancel"
)

// QuickActionResult 快捷操作結果；duplicate 時 Event 為新建立的副本
type QuickActionResult struct {
	Action  QuickAction  `json:"action"`
	Message string       `json:"message"`
	Event   *model.Event `json:"event"`
}

type QuickActionDispatcher interface {
	Dispatch(ctx context.Context, id uuid.UUID, action QuickAction, payload *model.UpdateEventParams) (*QuickActionResult, error)
}

type QuickActionDispatcherImpl struct {
	events EventService
}

func NewQuickActionDispatcher(events EventService) QuickActionDispatcher {
	return &QuickActionDispatcherImpl{events: events}
}

func (d *QuickActionDispatcherImpl) Dispatch(ctx context.Context, id uuid.UUID, action QuickAction, payload *model.UpdateEventParams) (*QuickActionResult, error) {
	var (
		event   *model.Event
		message string
		err     error
	)

	switch action {
	case QuickActionView:
		event, err = d.events.Get(ctx, id)
		message = "Event loaded"
	case QuickActionEdit:
		// 沒有 payload 時等同 view
		if payload == nil || payload.IsEmpty() {
			event, err = d.events.Get(ctx, id)
			message = "Event loaded"
		} else {
			event, err = d.events.Update(ctx, id, *payload)
			message = "Event updated"
		}
	case QuickActionDuplicate:
		event, err = d.events.Duplicate(ctx, id, model.DuplicateEventParams{})
		message = "Event duplicated"
	case QuickActionCancel:
		event, err = d.events.Archive(ctx, id)
		message = "Event cancelled"
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidQuickAction, "unknown action %q", action)
	}
	if err != nil {
		return nil, err
	}

	return &QuickActionResult{Action: action, Message: message, Event: event}, nil
}
