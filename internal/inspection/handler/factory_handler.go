package handler

import (
	"github.com/bitfantasy/mashg/internal/inspection/service"
	"github.com/gin-gonic/gin"
)

type FactoryHandler struct {
	svc *service.FactoryService
}

func NewFactoryHandler(svc *service.FactoryService) *FactoryHandler {
	return &FactoryHandler{svc: svc}
}

// List GET /factories
func (h *FactoryHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, "list factories", err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Search GET /factories/search?q=
func (h *FactoryHandler) Search(c *gin.Context) {
	items, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, "search factories", err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Get GET /factories/:id
func (h *FactoryHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	factory, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, "get factory", err)
		return
	}
	Success(c, factory)
}

// Create POST /factories
func (h *FactoryHandler) Create(c *gin.Context) {
	var req service.CreateFactoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	factory, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, "create factory", err)
		return
	}
	Created(c, factory)
}

// Update PUT /factories/:id
func (h *FactoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.UpdateFactoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	factory, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, "update factory", err)
		return
	}
	Success(c, factory)
}

// Delete DELETE /factories/:id
func (h *FactoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, "delete factory", err)
		return
	}
	NoContent(c)
}
