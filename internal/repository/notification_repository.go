package repository

import (
	"context"
	"fmt"
	"time"

	"go-gin-event-manager/internal/model"
	apperrors "go-gin-event-manager/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var notificationTable = table{
	name:    "notifications",
	columns: []string{"id", "event_id", "title", "message", "type", "is_read", "created_at"},
}

type NotificationRepository interface {
	CRUDRepository[model.Notification, model.CreateNotificationParams, model.UpdateNotificationParams]

	FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error)
	FindUnreadByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error)
	CountUnreadByEventID(ctx context.Context, eventID uuid.UUID) (int, error)
	// MarkAllReadForEvent 回傳這次被標記為已讀的通知
	MarkAllReadForEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error)
}

type NotificationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &NotificationRepositoryImpl{
		pool: pool,
	}
}

// Create 新增通知並在同一個 statement 中累加 events.notification_count。
// event 不存在時回傳 ErrEventNotFound（foreign key）。
func (r *NotificationRepositoryImpl) Create(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error) {
	query := fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO notifications (id, event_id, title, message, type, is_read, created_at)
			VALUES ($1, $2, $3, $4, $5, FALSE, $6)
			RETURNING %[1]s
		), counted AS (
			UPDATE events SET notification_count = notification_count + 1
			WHERE id = $2
		)
		SELECT %[1]s FROM inserted
	`, notificationTable.columnList())

	rows, err := conn(ctx, r.pool).Query(ctx, query,
		uuid.New(), params.EventID, params.Title, params.Message, params.Type, time.Now().UTC(),
	)
	notification, err := collectOne[model.Notification](rows, err, apperrors.ErrNotificationNotFound)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

func (r *NotificationRepositoryImpl) FindAll(ctx context.Context, opts ListOptions) ([]*model.Notification, error) {
	query := notificationTable.selectFrom() + ` ORDER BY created_at ASC, id`
	args := []any{}
	if opts.Limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	return collectAll[model.Notification](rows, err)
}

func (r *NotificationRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	query := notificationTable.selectFrom() + ` WHERE id = $1`

	rows, err := conn(ctx, r.pool).Query(ctx, query, id)
	return collectOne[model.Notification](rows, err, apperrors.ErrNotificationNotFound)
}

// Update 只允許更新已讀狀態
func (r *NotificationRepositoryImpl) Update(ctx context.Context, id uuid.UUID, params model.UpdateNotificationParams) (*model.Notification, error) {
	if params.IsRead == nil {
		return nil, apperrors.ErrInvalidInput
	}

	query := fmt.Sprintf(`
		UPDATE notifications
		SET is_read = $1
		WHERE id = $2
		RETURNING %s
	`, notificationTable.columnList())

	rows, err := conn(ctx, r.pool).Query(ctx, query, *params.IsRead, id)
	return collectOne[model.Notification](rows, err, apperrors.ErrNotificationNotFound)
}

func (r *NotificationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		WITH deleted AS (
			DELETE FROM notifications WHERE id = $1
			RETURNING event_id
		)
		UPDATE events SET notification_count = GREATEST(notification_count - 1, 0)
		WHERE id IN (SELECT event_id FROM deleted)
		RETURNING id
	`
	rows, err := conn(ctx, r.pool).Query(ctx, query, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	found := rows.Next()
	if err := rows.Err(); err != nil {
		return err
	}
	if !found {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) Count(ctx context.Context) (int, error) {
	var total int
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&total)
	return total, err
}

func (r *NotificationRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error) {
	query := notificationTable.selectFrom() + `
		WHERE event_id = $1
		ORDER BY created_at ASC, id`

	rows, err := conn(ctx, r.pool).Query(ctx, query, eventID)
	return collectAll[model.Notification](rows, err)
}

func (r *NotificationRepositoryImpl) FindUnreadByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error) {
	query := notificationTable.selectFrom() + `
		WHERE event_id = $1 AND is_read = FALSE
		ORDER BY created_at ASC, id`

	rows, err := conn(ctx, r.pool).Query(ctx, query, eventID)
	return collectAll[model.Notification](rows, err)
}

func (r *NotificationRepositoryImpl) CountUnreadByEventID(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE event_id = $1 AND is_read = FALSE`, eventID,
	).Scan(&count)
	return count, err
}

func (r *NotificationRepositoryImpl) MarkAllReadForEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error) {
	query := fmt.Sprintf(`
		WITH updated AS (
			UPDATE notifications
			SET is_read = TRUE
			WHERE event_id = $1 AND is_read = FALSE
			RETURNING %[1]s
		)
		SELECT %[1]s FROM updated
		ORDER BY created_at ASC, id
	`, notificationTable.columnList())

	rows, err := conn(ctx, r.pool).Query(ctx, query, eventID)
	return collectAll[model.Notification](rows, err)
}
