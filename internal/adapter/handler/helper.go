package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/slidecast-team/slidecast/errors"
	"github.com/slidecast-team/slidecast/internal/domain/entities"
	usecaseErrors "github.com/slidecast-team/slidecast/internal/usecase/errors"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response
func HandleSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	// Try to detect AppError from project errors package
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	// Non-AppError => internal server error
	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}

// cardSentinels are domain card validation failures that map to a 400
var cardSentinels = []error{
	entities.ErrCardMissingQuestion,
	entities.ErrCardMissingAnswer,
	entities.ErrCardTooFewOptions,
	entities.ErrCardCorrectIndexOutOfRange,
	entities.ErrCardUnknownKind,
	entities.ErrCardDuplicateID,
}

// translateError maps usecase sentinel errors onto AppError so handlers
// share one mapping. resource names what the request was about; it only
// shows up in not-found messages. AppErrors pass through untouched.
func translateError(err error, resource string) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return err
	}

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrNotFound),
		stdErrors.Is(err, entities.ErrSlidePackNotFound),
		stdErrors.Is(err, entities.ErrCourseNotFound):
		return errors.ErrNotFound(resource)
	case stdErrors.Is(err, usecaseErrors.ErrConcurrentJobConflict):
		return errors.ErrConcurrentJobConflict("")
	case stdErrors.Is(err, usecaseErrors.ErrInvalidMergeInput):
		return errors.ErrInvalidMergeInput(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrReorderSetMismatch):
		return errors.ErrInvalidReorder(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrPackNotCompleted):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrEmptyTranscript):
		return errors.ErrEmptyTranscript()
	case stdErrors.Is(err, usecaseErrors.ErrEmptyOutline):
		return errors.ErrEmptyOutline()
	}

	for _, sentinel := range cardSentinels {
		if stdErrors.Is(err, sentinel) {
			return errors.ErrInvalidCard(err)
		}
	}

	return err
}

// bindAndValidate binds the request into req and runs validator tags
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload(err)
	}
	if err := c.Validate(req); err != nil {
		return errors.ErrInvalidPayload(err)
	}
	return nil
}

// parseUUIDParam parses a path parameter as a UUID
func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument(name + " must be a valid UUID")
	}
	return id, nil
}
