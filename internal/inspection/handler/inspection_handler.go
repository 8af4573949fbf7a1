package handler

import (
	"github.com/bitfantasy/mashg/internal/inspection/service"
	"github.com/gin-gonic/gin"
)

type InspectionHandler struct {
	svc *service.InspectionService
}

func NewInspectionHandler(svc *service.InspectionService) *InspectionHandler {
	return &InspectionHandler{svc: svc}
}

func inspectionFilters(c *gin.Context) map[string]string {
	return map[string]string{
		"factory_id": c.Query("factoryId"),
		"result":     c.Query("result"),
	}
}

// List GET /inspections?factoryId=&result=
func (h *InspectionHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), inspectionFilters(c))
	if err != nil {
		fail(c, "list inspections", err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Get GET /inspections/:id
func (h *InspectionHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inspection, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, "get inspection", err)
		return
	}
	Success(c, inspection)
}

// Create POST /inspections
func (h *InspectionHandler) Create(c *gin.Context) {
	var req service.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	inspection, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, "create inspection", err)
		return
	}
	Created(c, inspection)
}

// Update PUT /inspections/:id
func (h *InspectionHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.UpdateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	inspection, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, "update inspection", err)
		return
	}
	Success(c, inspection)
}

// Delete DELETE /inspections/:id
func (h *InspectionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, "delete inspection", err)
		return
	}
	NoContent(c)
}
