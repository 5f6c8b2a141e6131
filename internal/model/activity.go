package model

import (
	"time"

	"github.com/google/uuid"
)

// 不產生通知、只寫入 activity queue 的動作
const (
	ActivityDeleted           LifecycleAction = "deleted"
	ActivityNotificationAdded LifecycleAction = "notification_added"
	ActivityNotificationsRead LifecycleAction = "notifications_read"
)

// EventActivity 活動變更紀錄，commit 後送入 activity queue
type EventActivity struct {
	EventID    uuid.UUID       `json:"event_id"`
	Action     LifecycleAction `json:"action"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewEventActivity(eventID uuid.UUID, action LifecycleAction) *EventActivity {
	return &EventActivity{EventID: eventID, Action: action, OccurredAt: time.Now().UTC()}
}
