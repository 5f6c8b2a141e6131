package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NotificationType 通知類別
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
	NotificationTypeSuccess NotificationType = "success"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeWarning, NotificationTypeError, NotificationTypeSuccess:
		return true
	}
	return false
}

// Notification 活動通知，只能透過 cascade 刪除
type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	EventID   uuid.UUID        `json:"eventId" db:"event_id"`
	Title     string           `json:"title" db:"title"`
	Message   *string          `json:"message,omitempty" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	IsRead    bool             `json:"isRead" db:"is_read"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}

type CreateNotificationParams struct {
	EventID uuid.UUID
	Title   string
	Message *string
	Type    NotificationType
}

// UpdateNotificationParams 通知僅允許變更已讀狀態
type UpdateNotificationParams struct {
	IsRead *bool
}

// LifecycleAction 觸發通知的活動生命週期動作
type LifecycleAction string

const (
	LifecycleCreated    LifecycleAction = "created"
	LifecycleUpdated    LifecycleAction = "updated"
	LifecyclePublished  LifecycleAction = "published"
	LifecycleArchived   LifecycleAction = "archived"
	LifecycleDuplicated LifecycleAction = "duplicated"
	LifecycleCancelled  LifecycleAction = "cancelled"
)

type lifecycleTemplate struct {
	title   string
	message string
	typ     NotificationType
}

var lifecycleTemplates = map[LifecycleAction]lifecycleTemplate{
	LifecycleCreated:    {"Event Created", "Event %q has been created", NotificationTypeInfo},
	LifecycleUpdated:    {"Event Updated", "Event %q has been updated", NotificationTypeInfo},
	LifecyclePublished:  {"Event Published", "Event %q has been published", NotificationTypeSuccess},
	LifecycleArchived:   {"Event Archived", "Event %q has been archived", NotificationTypeWarning},
	LifecycleDuplicated: {"Event Duplicated", "Event %q was created as a copy", NotificationTypeInfo},
	LifecycleCancelled:  {"Event Cancelled", "Event %q has been cancelled", NotificationTypeWarning},
}

// LifecycleNotification 將生命週期動作轉成固定的 title / message / type
func LifecycleNotification(eventID uuid.UUID, eventName string, action LifecycleAction) (CreateNotificationParams, bool) {
	tpl, ok := lifecycleTemplates[action]
	if !ok {
		return CreateNotificationParams{}, false
	}
	msg := fmt.Sprintf(tpl.message, eventName)
	return CreateNotificationParams{
		EventID: eventID,
		Title:   tpl.title,
		Message: &msg,
		Type:    tpl.typ,
	}, true
}

// CancellationNotification 帶有取消原因的通知
func CancellationNotification(eventID uuid.UUID, eventName, reason string) CreateNotificationParams {
	params, _ := LifecycleNotification(eventID, eventName, LifecycleCancelled)
	msg := fmt.Sprintf("Event %q has been cancelled: %s", eventName, reason)
	params.Message = &msg
	return params
}
