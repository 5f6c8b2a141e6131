package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	apperrors "go-gin-event-manager/pkg/app_errors"
	"go-gin-event-manager/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorResponse 所有錯誤回應共用的格式
type ErrorResponse struct {
	Code        apperrors.ErrorKind `json:"code"`
	Message     string              `json:"message"`
	Details     string              `json:"details,omitempty"`
	FieldErrors []FieldError        `json:"fieldErrors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

func init() {
	// 驗證錯誤的欄位名稱使用 json/form tag，和請求內容一致
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(requestFieldName)
	}
}

func requestFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondBindError(c, err)
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		respondBindError(c, err)
		return err
	}
	return nil
}

// BindOptionalJson 沒有 body 時不做綁定
func BindOptionalJson(c *gin.Context, obj interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return BindJson(c, obj)
}

// ParseID 解析路徑上的 UUID，失敗時直接回應 400
func ParseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    apperrors.KindInvalidArgument,
			Message: "Invalid " + param,
			Details: err.Error(),
		})
		return uuid.Nil, false
	}
	return id, true
}

func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:        apperrors.KindValidationFailed,
			Message:     "Validation failed",
			FieldErrors: fields,
		})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    apperrors.KindInvalidArgument,
		Message: "Invalid request format",
		Details: err.Error(),
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}

// statusFor 錯誤分類對應的 HTTP 狀態碼
func statusFor(kind apperrors.ErrorKind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindInvalidArgument, apperrors.KindValidationFailed, apperrors.KindInvalidTransition:
		return http.StatusBadRequest
	case apperrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var kindMessages = map[apperrors.ErrorKind]string{
	apperrors.KindNotFound:          "Resource not found",
	apperrors.KindInvalidArgument:   "Invalid input",
	apperrors.KindInvalidTransition: "Invalid status transition",
	apperrors.KindValidationFailed:  "Validation failed",
	apperrors.KindConflict:          "Conflict",
	apperrors.KindInternal:          "Internal server error",
}

// handleError 依錯誤分類回應，內部錯誤不回傳細節
func handleError(c *gin.Context, err error, operation string) {
	kind := apperrors.Kind(err)
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	resp := ErrorResponse{Code: kind, Message: kindMessages[kind]}
	if kind == apperrors.KindInternal {
		log.Error("Unexpected error")
	} else {
		log.Warn("Request rejected", zap.String("kind", string(kind)))
		resp.Details = err.Error()
	}
	c.JSON(statusFor(kind), resp)
}
