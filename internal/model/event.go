package model

import (
	"strings"
	"time"

	apperrors "go-gin-event-manager/pkg/app_errors"

	"github.com/google/uuid"
)

const (
	MaxEventNameLength = 200
	// CopySuffix 複製活動時附加在名稱後的字串
	CopySuffix = " (Copy)"
)

// EventStatus 活動狀態類型
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusArchived  EventStatus = "archived"
)

// IsValid 驗證狀態是否有效
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusArchived:
		return true
	}
	return false
}

// CanTransitionTo 檢查 publish / archive 流程是否允許轉換到目標狀態。
// 一般的 Update 不經過此檢查。
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	transitions := map[EventStatus][]EventStatus{
		EventStatusDraft:     {EventStatusPublished, EventStatusArchived},
		EventStatusPublished: {EventStatusArchived},
		EventStatusArchived:  {}, // 不能轉換到任何狀態
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Event 活動模型
type Event struct {
	ID                uuid.UUID   `json:"id" db:"id"`
	Name              string      `json:"name" db:"name"`
	Description       *string     `json:"description,omitempty" db:"description"`
	Status            EventStatus `json:"status" db:"status"`
	StartDate         time.Time   `json:"startDate" db:"start_date"`
	EndDate           *time.Time  `json:"endDate,omitempty" db:"end_date"`
	Location          *string     `json:"location,omitempty" db:"location"`
	Tags              []string    `json:"tags" db:"tags"`
	NotificationCount int         `json:"notificationCount" db:"notification_count"`
	CreatedAt         time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time   `json:"updatedAt" db:"updated_at"`
}

// CreateEventParams 建立活動所需欄位；Status 為 nil 時預設 draft
type CreateEventParams struct {
	Name        string
	Description *string
	Status      *EventStatus
	StartDate   time.Time
	EndDate     *time.Time
	Location    *string
	Tags        []string
}

// UpdateEventParams 部分更新，nil 代表不變更。
// 可為空的欄位（description、endDate、location）無法透過更新清除為 null。
type UpdateEventParams struct {
	Name        *string
	Description *string
	Status      *EventStatus
	StartDate   *time.Time
	EndDate     *time.Time
	Location    *string
	Tags        *[]string
}

// IsEmpty 檢查是否沒有任何欄位要更新
func (p UpdateEventParams) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Status == nil &&
		p.StartDate == nil && p.EndDate == nil && p.Location == nil && p.Tags == nil
}

// TouchesDates 變更是否包含開始或結束日期
func (p UpdateEventParams) TouchesDates() bool {
	return p.StartDate != nil || p.EndDate != nil
}

// IsSignificant 變更是否包含 status、name 或 startDate（需要發出 updated 通知）
func (p UpdateEventParams) IsSignificant() bool {
	return p.Status != nil || p.Name != nil || p.StartDate != nil
}

// DuplicateEventParams 複製時覆寫的欄位，nil 代表沿用來源活動
type DuplicateEventParams struct {
	Name *string
	Tags *[]string
}

// CancelEventParams 取消活動參數。Occurrence 目前不影響行為，整個活動都會被封存。
type CancelEventParams struct {
	Occurrence *time.Time
	Reason     *string
}

// EventFilter 列表查詢條件，所有條件以 AND 組合
type EventFilter struct {
	Search   string
	Status   *EventStatus
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// Offset 回傳目前頁面的資料列位移
func (f EventFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// ValidateName 名稱必填且長度有上限
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return apperrors.Wrap(apperrors.ErrValidationFailed, "name is required")
	}
	if len([]rune(trimmed)) > MaxEventNameLength {
		return apperrors.Wrapf(apperrors.ErrValidationFailed, "name must be at most %d characters", MaxEventNameLength)
	}
	return nil
}

// ValidateDateRange 結束日期若存在必須嚴格晚於開始日期
func ValidateDateRange(start time.Time, end *time.Time) error {
	if end != nil && !end.After(start) {
		return apperrors.Wrap(apperrors.ErrValidationFailed, "endDate must be after startDate")
	}
	return nil
}
