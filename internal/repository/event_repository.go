package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-gin-event-manager/internal/model"
	apperrors "go-gin-event-manager/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var eventTable = table{
	name: "events",
	columns: []string{
		"id", "name", "description", "status", "start_date", "end_date",
		"location", "tags", "notification_count", "created_at", "updated_at",
	},
}

type EventRepository interface {
	CRUDRepository[model.Event, model.CreateEventParams, model.UpdateEventParams]

	// Search 依條件查詢並分頁，同時回傳符合條件的總筆數
	Search(ctx context.Context, filter model.EventFilter) ([]*model.Event, int, error)
	// FindByDateRange 開始時間落在 [from, to] 之間的活動
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*model.Event, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

func (r *EventRepositoryImpl) Create(ctx context.Context, params model.CreateEventParams) (*model.Event, error) {
	status := model.EventStatusDraft
	if params.Status != nil {
		status = *params.Status
	}
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}
	now := time.Now().UTC()

	query := fmt.Sprintf(`
		INSERT INTO events (id, name, description, status, start_date, end_date, location, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING %s
	`, eventTable.columnList())

	rows, err := conn(ctx, r.pool).Query(ctx, query,
		uuid.New(), params.Name, params.Description, status,
		params.StartDate, params.EndDate, params.Location, tags, now,
	)
	event, err := collectOne[model.Event](rows, err, apperrors.ErrEventNotFound)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (r *EventRepositoryImpl) FindAll(ctx context.Context, opts ListOptions) ([]*model.Event, error) {
	query := eventTable.selectFrom() + ` ORDER BY created_at DESC, id`
	args := []any{}
	if opts.Limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	return collectAll[model.Event](rows, err)
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := eventTable.selectFrom() + ` WHERE id = $1`

	rows, err := conn(ctx, r.pool).Query(ctx, query, id)
	return collectOne[model.Event](rows, err, apperrors.ErrEventNotFound)
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Name != nil {
		add("name", *params.Name)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Status != nil {
		add("status", *params.Status)
	}
	if params.StartDate != nil {
		add("start_date", *params.StartDate)
	}
	if params.EndDate != nil {
		add("end_date", *params.EndDate)
	}
	if params.Location != nil {
		add("location", *params.Location)
	}
	if params.Tags != nil {
		tags := *params.Tags
		if tags == nil {
			tags = []string{}
		}
		add("tags", tags)
	}

	// updated_at 一律更新
	add("updated_at", time.Now().UTC())

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, eventTable.columnList())

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	return collectOne[model.Event](rows, err, apperrors.ErrEventNotFound)
}

// Delete 永久刪除，notifications 由 ON DELETE CASCADE 清除
func (r *EventRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) Count(ctx context.Context) (int, error) {
	var total int
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&total)
	return total, err
}

func (r *EventRepositoryImpl) Search(ctx context.Context, filter model.EventFilter) ([]*model.Event, int, error) {
	where, args := buildEventWhere(filter)
	db := conn(ctx, r.pool)

	var total int
	countQuery := `SELECT COUNT(*) FROM events` + where
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	query := fmt.Sprintf(`%s%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		eventTable.selectFrom(), where, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, filter.Offset())

	rows, err := db.Query(ctx, query, args...)
	events, err := collectAll[model.Event](rows, err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search events: %w", err)
	}
	return events, total, nil
}

func (r *EventRepositoryImpl) FindByDateRange(ctx context.Context, from, to time.Time) ([]*model.Event, error) {
	query := eventTable.selectFrom() + `
		WHERE start_date >= $1 AND start_date <= $2
		ORDER BY start_date ASC, id`

	rows, err := conn(ctx, r.pool).Query(ctx, query, from, to)
	return collectAll[model.Event](rows, err)
}

// buildEventWhere 組出 WHERE 子句，條件之間為 AND
func buildEventWhere(filter model.EventFilter) (string, []any) {
	conds := []string{}
	args := []any{}

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		// 名稱或任一 tag 包含搜尋字串（不分大小寫）
		add(`(name ILIKE $%[1]d OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $%[1]d))`,
			"%"+escapeLike(search)+"%")
	}
	if filter.Status != nil {
		add(`status = $%d`, *filter.Status)
	}
	if filter.From != nil {
		add(`start_date >= $%d`, *filter.From)
	}
	if filter.To != nil {
		add(`start_date <= $%d`, *filter.To)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
