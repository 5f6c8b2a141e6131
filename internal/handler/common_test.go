package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-gin-event-manager/internal/handler"
	"go-gin-event-manager/internal/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var (
	InvalidJSON = `{"invalid": json}`
)

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

func createRawHTTPRequest(method, url, body string) *http.Request {
	req, _ := http.NewRequest(method, url, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type testRouter struct {
	engine        *gin.Engine
	events        *mocks.EventServiceMock
	notifications *mocks.NotificationServiceMock
	dispatcher    *mocks.QuickActionDispatcherMock
}

func setupTestRouter(t *testing.T) *testRouter {
	gin.SetMode(gin.TestMode)
	r := &testRouter{
		engine:        gin.New(),
		events:        mocks.NewEventServiceMock(),
		notifications: mocks.NewNotificationServiceMock(),
		dispatcher:    mocks.NewQuickActionDispatcherMock(),
	}
	t.Cleanup(func() {
		r.events.AssertExpectations(t)
		r.notifications.AssertExpectations(t)
		r.dispatcher.AssertExpectations(t)
	})

	handler.NewEventHandler(r.events, r.dispatcher).RegisterRoutes(r.engine)
	handler.NewNotificationHandler(r.notifications).RegisterRoutes(r.engine)
	return r
}

func (r *testRouter) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.engine.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
