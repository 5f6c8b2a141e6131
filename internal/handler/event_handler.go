package handler

import (
	"net/http"
	"time"

	"go-gin-event-manager/internal/model"
	"go-gin-event-manager/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 20

type EventHandler struct {
	service    service.EventService
	dispatcher service.QuickActionDispatcher
}

func NewEventHandler(service service.EventService, dispatcher service.QuickActionDispatcher) *EventHandler {
	return &EventHandler{service: service, dispatcher: dispatcher}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.List)
		router.POST("events", h.Create)
		router.GET("events/:id", h.Get)
		router.PUT("events/:id", h.Update)
		router.PATCH("events/:id", h.Update)
		router.DELETE("events/:id", h.Delete)
		router.POST("events/:id/publish", h.Publish)
		router.POST("events/:id/archive", h.Archive)
		router.POST("events/:id/duplicate", h.Duplicate)
		router.POST("events/:id/cancel", h.Cancel)
		router.POST("events/:id/quick-action", h.QuickAction)
	}
}

// ListEventsQuery 列表查詢參數
type ListEventsQuery struct {
	Page     int        `form:"page"`
	PageSize int        `form:"pageSize"`
	Q        string     `form:"q"`
	Status   string     `form:"status"`
	From     *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Name        string             `json:"name" binding:"required,max=200"`
	Description *string            `json:"description"`
	Status      *model.EventStatus `json:"status"`
	StartDate   time.Time          `json:"startDate" binding:"required"`
	EndDate     *time.Time         `json:"endDate"`
	Location    *string            `json:"location"`
	Tags        []string           `json:"tags"`
}

// UpdateEventRequest 更新活動請求，省略的欄位不變更
type UpdateEventRequest struct {
	Name        *string            `json:"name" binding:"omitempty,max=200"`
	Description *string            `json:"description"`
	Status      *model.EventStatus `json:"status"`
	StartDate   *time.Time         `json:"startDate"`
	EndDate     *time.Time         `json:"endDate"`
	Location    *string            `json:"location"`
	Tags        *[]string          `json:"tags"`
}

func (r UpdateEventRequest) params() model.UpdateEventParams {
	return model.UpdateEventParams{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Location:    r.Location,
		Tags:        r.Tags,
	}
}

type DuplicateEventRequest struct {
	Name *string   `json:"name" binding:"omitempty,max=200"`
	Tags *[]string `json:"tags"`
}

type CancelEventRequest struct {
	Occurrence *time.Time `json:"occurrence"`
	Reason     *string    `json:"reason"`
}

type QuickActionRequest struct {
	Action  service.QuickAction `json:"action" binding:"required"`
	Payload *UpdateEventRequest `json:"payload"`
}

// List godoc
// @Summary List events
// @Description Paginated list filtered by name/tag search, status and start date range.
// @Tags events
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size 1..100 (default 20)"
// @Param q query string false "Case-insensitive search on name or tags"
// @Param status query string false "draft, published or archived"
// @Param from query string false "RFC3339 lower bound on startDate"
// @Param to query string false "RFC3339 upper bound on startDate"
// @Success 200 {object} model.Page[model.Event] "data/total/page/pageSize"
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/events [get]
func (h *EventHandler) List(c *gin.Context) {
	var q ListEventsQuery
	if err := BindQuery(c, &q); err != nil {
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = defaultPageSize
	}

	filter := model.EventFilter{
		Search:   q.Q,
		From:     q.From,
		To:       q.To,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.Status != "" {
		status := model.EventStatus(q.Status)
		filter.Status = &status
	}

	page, err := h.service.List(c, filter)
	if err != nil {
		handleError(c, err, "ListEvents")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} model.Event
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	event, err := h.service.Get(c, id)
	if err != nil {
		handleError(c, err, "GetEvent")
		return
	}
	c.JSON(http.StatusOK, event)
}

// Create godoc
// @Summary Create an event
// @Description Status defaults to draft. An "Event Created" notification is recorded.
// @Tags events
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} model.Event
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	created, err := h.service.Create(c, model.CreateEventParams{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		Tags:        req.Tags,
	})
	if err != nil {
		handleError(c, err, "CreateEvent")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary Update an event
// @Description Partial update. Changing status, name or startDate records an "Event Updated" notification.
// @Description Omitted or null fields are left unchanged, so description, endDate and location cannot be cleared.
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} model.Event
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	updated, err := h.service.Update(c, id, req.params())
	if err != nil {
		handleError(c, err, "UpdateEvent")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete or archive an event
// @Description permanent=true removes the event and its notifications, otherwise the event is archived.
// @Tags events
// @Param id path string true "Event ID"
// @Param permanent query bool false "Hard delete"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}

	var err error
	if c.Query("permanent") == "true" {
		err = h.service.Remove(c, id)
	} else {
		_, err = h.service.Archive(c, id)
	}
	if err != nil {
		handleError(c, err, "DeleteEvent")
		return
	}
	c.Status(http.StatusNoContent)
}

// Publish godoc
// @Summary Publish a draft event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} model.Event
// @Failure 400 {object} ErrorResponse "code: invalid_transition"
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/events/{id}/publish [post]
func (h *EventHandler) Publish(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	event, err := h.service.Publish(c, id)
	if err != nil {
		handleError(c, err, "PublishEvent")
		return
	}
	c.JSON(http.StatusOK, event)
}

// Archive godoc
// @Summary Archive an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} model.Event
// @Failure 400 {object} ErrorResponse "code: invalid_transition"
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/events/{id}/archive [post]
func (h *EventHandler) Archive(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	event, err := h.service.Archive(c, id)
	if err != nil {
		handleError(c, err, "ArchiveEvent")
		return
	}
	c.JSON(http.StatusOK, event)
}

// Duplicate godoc
// @Summary Duplicate an event
// @Description Creates a draft copy named "<name> (Copy)". Optional name and tags override the copy in the same transaction.
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param overrides body DuplicateEventRequest false "Overrides"
// @Success 201 {object} model.Event
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/events/{id}/duplicate [post]
func (h *EventHandler) Duplicate(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	var req DuplicateEventRequest
	if err := BindOptionalJson(c, &req); err != nil {
		return
	}

	copied, err := h.service.Duplicate(c, id, model.DuplicateEventParams{Name: req.Name, Tags: req.Tags})
	if err != nil {
		handleError(c, err, "DuplicateEvent")
		return
	}
	c.JSON(http.StatusCreated, copied)
}

// Cancel godoc
// @Summary Cancel an event
// @Description Archives the event. A reason adds an "Event Cancelled" notification.
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body CancelEventRequest false "Cancellation details"
// @Success 200 {object} model.Event
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/events/{id}/cancel [post]
func (h *EventHandler) Cancel(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	var req CancelEventRequest
	if err := BindOptionalJson(c, &req); err != nil {
		return
	}
	event, err := h.service.Cancel(c, id, model.CancelEventParams{Occurrence: req.Occurrence, Reason: req.Reason})
	if err != nil {
		handleError(c, err, "CancelEvent")
		return
	}
	c.JSON(http.StatusOK, event)
}

// QuickAction godoc
// @Summary Run a quick action
// @Description action is one of view, edit, duplicate, cancel.
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body QuickActionRequest true "Action"
// @Success 200 {object} service.QuickActionResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/events/{id}/quick-action [post]
func (h *EventHandler) QuickAction(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	var req QuickActionRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	var payload *model.UpdateEventParams
	if req.Payload != nil {
		p := req.Payload.params()
		payload = &p
	}
	result, err := h.dispatcher.Dispatch(c, id, req.Action, payload)
	if err != nil {
		handleError(c, err, "QuickAction")
		return
	}
	c.JSON(http.StatusOK, result)
}
