// Package handler holds the gin handlers of the admin and public APIs.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taxprep/backend/internal/domain/shared"
	"github.com/taxprep/backend/internal/infrastructure/logger"
	"github.com/taxprep/backend/internal/interfaces/http/dto"
	"github.com/taxprep/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Message sends a success response with a message
func (h *BaseHandler) Message(c *gin.Context, status int, message string, data any) {
	c.JSON(status, dto.NewMessageResponse(message, data))
}

// Page sends one page of results with its pagination block
func (h *BaseHandler) Page(c *gin.Context, data any, total int64, filter shared.Filter) {
	c.JSON(http.StatusOK, dto.NewListResponse(data, total, filter.Page, filter.Limit))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message))
}

// BindError answers a failed ShouldBind* call
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	status, resp := middleware.BindErrorResponse(err)
	c.JSON(status, resp)
}

// HandleError converts domain errors to HTTP responses. Anything else is a 500
// whose cause is logged but never sent to the client.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code, status := dto.StatusForDomainCode(domainErr.Code)
		resp := dto.NewErrorResponse(code, domainErr.Message)
		for _, d := range domainErr.Details {
			resp.Errors = append(resp.Errors, dto.FieldDetail{Field: d.Field, Message: d.Message})
		}
		c.JSON(status, resp)
		return
	}

	_ = c.Error(err)
	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// bindID parses the :id path parameter
func (h *BaseHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindError(c, err)
		return uuid.Nil, false
	}
	return uuid.MustParse(req.ID), true
}

// bindList reads the common list query plus the given resource filters
func (h *BaseHandler) bindList(c *gin.Context, filters ...dto.QueryFilter) (shared.Filter, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return shared.Filter{}, false
	}
	filter, err := req.ToFilter(c.Request.URL.Query(), filters...)
	if err != nil {
		h.HandleError(c, err)
		return shared.Filter{}, false
	}
	return filter, true
}
