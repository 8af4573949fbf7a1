package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bitfantasy/mashg/internal/inspection/repository"
	"github.com/bitfantasy/mashg/internal/inspection/service"
	"github.com/bitfantasy/mashg/internal/inspection/sse"
	"github.com/bitfantasy/mashg/internal/report"
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers of the inspection store.
type Handlers struct {
	Factory    *FactoryHandler
	Inspection *InspectionHandler
	Report     *ReportHandler
	SSE        *SSEHandler
}

func NewHandlers(svc *service.Services, hub *sse.Hub) *Handlers {
	return &Handlers{
		Factory:    NewFactoryHandler(svc.Factory),
		Inspection: NewInspectionHandler(svc.Inspection),
		Report:     NewReportHandler(svc.Report),
		SSE:        NewSSEHandler(hub),
	}
}

// RegisterRoutes mounts every endpoint under api (normally /api).
func RegisterRoutes(api gin.IRouter, h *Handlers) {
	factories := api.Group("/factories")
	{
		factories.GET("", h.Factory.List)
		factories.GET("/search", h.Factory.Search)
		factories.GET("/:id", h.Factory.Get)
		factories.POST("", h.Factory.Create)
		factories.PUT("/:id", h.Factory.Update)
		factories.DELETE("/:id", h.Factory.Delete)
	}

	inspections := api.Group("/inspections")
	{
		inspections.GET("", h.Inspection.List)
		inspections.GET("/export", h.Report.Export)
		inspections.GET("/:id", h.Inspection.Get)
		inspections.POST("", h.Inspection.Create)
		inspections.PUT("/:id", h.Inspection.Update)
		inspections.DELETE("/:id", h.Inspection.Delete)
		inspections.GET("/:id/report", h.Report.Download)
		inspections.POST("/:id/report/archive", h.Report.Archive)
	}

	if h.SSE != nil {
		api.GET("/events", h.SSE.Stream)
	}
}

// Response is the JSON envelope of every non-binary reply.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes an error envelope; the HTTP status is code/100.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = http.StatusInternalServerError
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

func ServiceUnavailable(c *gin.Context, message string) {
	Error(c, 50300, message)
}

// GetUserID returns the authenticated user, empty when auth is disabled.
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// parseID reads the :id path parameter. It answers 400 itself and returns
// false for anything but a positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "invalid id: "+c.Param("id"))
		return 0, false
	}
	return uint(id), true
}

// fail maps service errors onto the envelope.
func fail(c *gin.Context, prefix string, err error) {
	_ = c.Error(err)

	var genErr *report.GenerationError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, prefix+": "+err.Error())
	case errors.Is(err, service.ErrStorageNotConfigured):
		ServiceUnavailable(c, prefix+": "+err.Error())
	case errors.As(err, &genErr):
		InternalError(c, prefix+": "+genErr.Error())
	default:
		InternalError(c, prefix+": "+err.Error())
	}
}
