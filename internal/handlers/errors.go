package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/huangang/codebook/backend/internal/services"
	"github.com/huangang/codebook/backend/pkg/logger"
	"github.com/huangang/codebook/backend/pkg/response"
)

var kindStatus = map[services.ErrorKind]int{
	services.KindInvalidInput:        http.StatusBadRequest,
	services.KindUnauthorized:        http.StatusUnauthorized,
	services.KindNotFound:            http.StatusNotFound,
	services.KindForbidden:           http.StatusForbidden,
	services.KindSelfReviewForbidden: http.StatusForbidden,
	services.KindDuplicateReview:     http.StatusConflict,
	services.KindConflict:            http.StatusConflict,
}

// toAppError converts a service error into the response envelope's error.
// Anything that is not a DomainError becomes an opaque 500.
func toAppError(err error) *response.AppError {
	var de *services.DomainError
	if errors.As(err, &de) {
		if status, ok := kindStatus[de.Kind]; ok {
			return &response.AppError{HTTPStatus: status, Code: status, Message: de.Error()}
		}
	}
	return response.NewServerError("internal server error")
}

func respondError(c *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("request_id", c.GetString(logger.RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	response.Error(c, appErr)
}

// pageQuery holds the ?page=&page_size= pair used by list endpoints.
type pageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (q pageQuery) normalized() (int, int) {
	page, size := q.Page, q.PageSize
	if page == 0 {
		page = 1
	}
	if size == 0 {
		size = 20
	}
	return page, size
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

var registerOnce sync.Once

// RegisterValidators adds the custom binding rules to gin's validator.
// It is safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("vote", func(fl validator.FieldLevel) bool {
			_, err := services.ParseVote(fl.Field().String())
			return err == nil
		})
	})
}
