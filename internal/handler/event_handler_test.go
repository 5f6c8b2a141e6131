package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"go-gin-event-manager/internal/handler"
	"go-gin-event-manager/internal/model"
	"go-gin-event-manager/internal/service"
	apperrors "go-gin-event-manager/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newEvent(status model.EventStatus) *model.Event {
	return &model.Event{
		ID:        uuid.New(),
		Name:      "Go Meetup",
		Status:    status,
		StartDate: time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC),
		Tags:      []string{"go"},
	}
}

func TestListEvents(t *testing.T) {
	t.Run("Success with defaults", func(t *testing.T) {
		r := setupTestRouter(t)
		page := model.NewPage([]*model.Event{newEvent(model.EventStatusDraft)}, 1, 1, 20)
		r.events.On("List", mock.Anything, model.EventFilter{Page: 1, PageSize: 20}).Return(page, nil).Once()

		w := r.do(createJSONHTTPRequest("GET", "/api/v1/events", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.EqualValues(t, 1, body["total"])
		assert.EqualValues(t, 20, body["pageSize"])
		assert.Len(t, body["data"], 1)
	})

	t.Run("Passes filters", func(t *testing.T) {
		r := setupTestRouter(t)
		r.events.On("List", mock.Anything, mock.MatchedBy(func(f model.EventFilter) bool {
			return f.Search == "conf" && f.Page == 2 && f.PageSize == 5 &&
				f.Status != nil && *f.Status == model.EventStatusPublished &&
				f.From != nil && f.From.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		})).Return(model.NewPage[model.Event](nil, 0, 2, 5), nil).Once()

		w := r.do(createJSONHTTPRequest("GET", "/api/v1/events?q=conf&page=2&pageSize=5&status=published&from=2024-01-01T00:00:00Z", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[],"total":0,"page":2,"pageSize":5}`, w.Body.String())
	})

	t.Run("Invalid page size", func(t *testing.T) {
		r := setupTestRouter(t)
		r.events.On("List", mock.Anything, mock.Anything).Return(nil, apperrors.Wrap(apperrors.ErrInvalidInput, "pageSize must be between 1 and 100")).Once()

		w := r.do(createJSONHTTPRequest("GET", "/api/v1/events?pageSize=500", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.KindInvalidArgument, decodeError(t, w).Code)
	})
}

func TestGetEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r := setupTestRouter(t)
		event := newEvent(model.EventStatusDraft)
		r.events.On("Get", mock.Anything, event.ID).Return(event, nil).Once()

		w := r.do(createJSONHTTPRequest("GET", "/api/v1/events/"+event.ID.String(), nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"startDate":"2025-03-01T18:00:00Z"`)
	})

	t.Run("Not found", func(t *testing.T) {
		r := setupTestRouter(t)
		id := uuid.New()
		r.events.On("Get", mock.Anything, id).Return(nil, apperrors.ErrEventNotFound).Once()

		w := r.do(createJSONHTTPRequest("GET", "/api/v1/events/"+id.String(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.KindNotFound, decodeError(t, w).Code)
	})

	t.Run("Invalid id", func(t *testing.T) {
		r := setupTestRouter(t)
		w := r.do(createJSONHTTPRequest("GET", "/api/v1/events/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Internal error hides details", func(t *testing.T) {
		r := setupTestRouter(t)
		id := uuid.New()
		r.events.On("Get", mock.Anything, id).Return(nil, errors.New("pq: password leaked")).Once()

		w := r.do(createJSONHTTPRequest("GET", "/api/v1/events/"+id.String(), nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, apperrors.KindInternal, resp.Code)
		assert.Empty(t, resp.Details)
	})
}

func TestCreateEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r := setupTestRouter(t)
		created := newEvent(model.EventStatusDraft)
		r.events.On("Create", mock.Anything, mock.MatchedBy(func(p model.CreateEventParams) bool {
			return p.Name == "Go Meetup" && p.StartDate.Equal(created.StartDate) && len(p.Tags) == 1
		})).Return(created, nil).Once()

		w := r.do(createJSONHTTPRequest("POST", "/api/v1/events", map[string]any{
			"name":      "Go Meetup",
			"startDate": "2025-03-01T18:00:00Z",
			"tags":      []string{"go"},
		}))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Missing fields return field errors", func(t *testing.T) {
		r := setupTestRouter(t)
		w := r.do(createJSONHTTPRequest("POST", "/api/v1/events", map[string]any{"description": "no name"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, apperrors.KindValidationFailed, resp.Code)
		assert.ElementsMatch(t, []handler.FieldError{
			{Field: "name", Message: "is required"},
			{Field: "startDate", Message: "is required"},
		}, resp.FieldErrors)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.IsType(t, []any{}, raw["fieldErrors"])
	})

	t.Run("Name too long reports json field name", func(t *testing.T) {
		r := setupTestRouter(t)
		w := r.do(createJSONHTTPRequest("POST", "/api/v1/events", map[string]any{
			"name":      strings.Repeat("x", 201),
			"startDate": "2025-03-01T18:00:00Z",
		}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []handler.FieldError{{Field: "name", Message: "must be at most 200 characters"}}, decodeError(t, w).FieldErrors)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		r := setupTestRouter(t)
		w := r.do(createRawHTTPRequest("POST", "/api/v1/events", InvalidJSON))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.KindInvalidArgument, decodeError(t, w).Code)
	})

	t.Run("Date validation from service", func(t *testing.T) {
		r := setupTestRouter(t)
		r.events.On("Create", mock.Anything, mock.Anything).
			Return(nil, apperrors.Wrap(apperrors.ErrValidationFailed, "endDate must be after startDate")).Once()

		w := r.do(createJSONHTTPRequest("POST", "/api/v1/events", map[string]any{
			"name":      "X",
			"startDate": "2024-06-02T00:00:00Z",
			"endDate":   "2024-06-01T00:00:00Z",
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, apperrors.KindValidationFailed, resp.Code)
		assert.Contains(t, resp.Details, "endDate")
	})
}

func TestUpdateEvent(t *testing.T) {
	r := setupTestRouter(t)
	event := newEvent(model.EventStatusDraft)
	location := "Taipei"
	r.events.On("Update", mock.Anything, event.ID, model.UpdateEventParams{Location: &location}).Return(event, nil).Twice()

	w := r.do(createJSONHTTPRequest("PUT", "/api/v1/events/"+event.ID.String(), map[string]any{"location": "Taipei"}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = r.do(createJSONHTTPRequest("PATCH", "/api/v1/events/"+event.ID.String(), map[string]any{"location": "Taipei"}))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteEvent(t *testing.T) {
	t.Run("Permanent removes", func(t *testing.T) {
		r := setupTestRouter(t)
		id := uuid.New()
		r.events.On("Remove", mock.Anything, id).Return(nil).Once()

		w := r.do(createJSONHTTPRequest("DELETE", "/api/v1/events/"+id.String()+"?permanent=true", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Default archives", func(t *testing.T) {
		r := setupTestRouter(t)
		id := uuid.New()
		r.events.On("Archive", mock.Anything, id).Return(newEvent(model.EventStatusArchived), nil).Once()

		w := r.do(createJSONHTTPRequest("DELETE", "/api/v1/events/"+id.String(), nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestPublishEvent(t *testing.T) {
	t.Run("Invalid transition", func(t *testing.T) {
		r := setupTestRouter(t)
		id := uuid.New()
		r.events.On("Publish", mock.Anything, id).
			Return(nil, apperrors.Wrap(apperrors.ErrInvalidTransition, "cannot move event from archived to published")).Once()

		w := r.do(createJSONHTTPRequest("POST", "/api/v1/events/"+id.String()+"/publish", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.KindInvalidTransition, decodeError(t, w).Code)
	})
}

func TestDuplicateEvent(t *testing.T) {
	t.Run("Without body", func(t *testing.T) {
		r := setupTestRouter(t)
		source := uuid.New()
		copied := newEvent(model.EventStatusDraft)
		r.events.On("Duplicate", mock.Anything, source, model.DuplicateEventParams{}).Return(copied, nil).Once()

		w := r.do(createRawHTTPRequest("POST", "/api/v1/events/"+source.String()+"/duplicate", ""))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("With overrides", func(t *testing.T) {
		r := setupTestRouter(t)
		source := uuid.New()
		copied := newEvent(model.EventStatusDraft)
		renamed := *copied
		renamed.Name = "Renamed"
		name := "Renamed"

		r.events.On("Duplicate", mock.Anything, source, model.DuplicateEventParams{Name: &name}).Return(&renamed, nil).Once()

		w := r.do(createJSONHTTPRequest("POST", "/api/v1/events/"+source.String()+"/duplicate", map[string]any{"name": "Renamed"}))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Renamed"`)
		r.events.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Invalid override is rejected without a copy", func(t *testing.T) {
		r := setupTestRouter(t)
		source := uuid.New()
		blank := "   "
		r.events.On("Duplicate", mock.Anything, source, model.DuplicateEventParams{Name: &blank}).
			Return(nil, apperrors.Wrap(apperrors.ErrValidationFailed, "name is required")).Once()

		w := r.do(createJSONHTTPRequest("POST", "/api/v1/events/"+source.String()+"/duplicate", map[string]any{"name": blank}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.KindValidationFailed, decodeError(t, w).Code)
		r.events.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCancelEvent(t *testing.T) {
	r := setupTestRouter(t)
	id := uuid.New()
	r.events.On("Cancel", mock.Anything, id, mock.MatchedBy(func(p model.CancelEventParams) bool {
		return p.Reason != nil && *p.Reason == "weather" && p.Occurrence == nil
	})).Return(newEvent(model.EventStatusArchived), nil).Once()

	w := r.do(createJSONHTTPRequest("POST", "/api/v1/events/"+id.String()+"/cancel", map[string]any{"reason": "weather"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"archived"`)
}

func TestQuickAction(t *testing.T) {
	t.Run("Edit with payload", func(t *testing.T) {
		r := setupTestRouter(t)
		id := uuid.New()
		event := newEvent(model.EventStatusDraft)
		r.dispatcher.On("Dispatch", mock.Anything, id, service.QuickActionEdit, mock.MatchedBy(func(p *model.UpdateEventParams) bool {
			return p != nil && p.Name != nil && *p.Name == "New"
		})).Return(&service.QuickActionResult{Action: service.QuickActionEdit, Message: "Event updated", Event: event}, nil).Once()

		w := r.do(createJSONHTTPRequest("POST", "/api/v1/events/"+id.String()+"/quick-action", map[string]any{
			"action":  "edit",
			"payload": map[string]any{"name": "New"},
		}))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"message":"Event updated"`)
	})

	t.Run("Unknown action", func(t *testing.T) {
		r := setupTestRouter(t)
		id := uuid.New()
		r.dispatcher.On("Dispatch", mock.Anything, id, service.QuickAction("explode"), (*model.UpdateEventParams)(nil)).
			Return(nil, apperrors.ErrInvalidQuickAction).Once()

		w := r.do(createJSONHTTPRequest("POST", "/api/v1/events/"+id.String()+"/quick-action", map[string]any{"action": "explode"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.KindInvalidArgument, decodeError(t, w).Code)
	})
}
