package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopadmin/backend/internal/domain/access"
)

// AdminRegistry manages the admin allow-list
type AdminRegistry interface {
	List(ctx context.Context, search string) ([]access.AllowedAdmin, error)
	Add(ctx context.Context, email string) (*access.AllowedAdmin, error)
	Remove(ctx context.Context, email string) error
}

// AdminHandler handles allow-list HTTP requests
type AdminHandler struct {
	BaseHandler
	registry AdminRegistry
	owner    access.Owner
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(registry AdminRegistry, owner access.Owner) *AdminHandler {
	return &AdminHandler{registry: registry, owner: owner}
}

// List handles GET /admins
// List the owner and every allow-listed email, sorted by email
func (h *AdminHandler) List(c *gin.Context) {
	search := c.Query("search")
	admins, err := h.registry.List(c.Request.Context(), search)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]AdminResponse, 0, len(admins)+1)
	if owner, ok := ownerResponse(h.owner, search); ok {
		resp = append(resp, owner)
	}
	for i := range admins {
		resp = append(resp, toAdminResponse(&admins[i]))
	}
	h.Success(c, resp)
}

// Add handles POST /admins
// Grant admin access to an email. The address is trimmed and lowercased.
func (h *AdminHandler) Add(c *gin.Context) {
	var req AddAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	admin, err := h.registry.Add(c.Request.Context(), req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAdminResponse(admin))
}

// Remove handles DELETE /admins/:email
// Revoke admin access. Existing sessions end at their next refresh.
func (h *AdminHandler) Remove(c *gin.Context) {
	if err := h.registry.Remove(c.Request.Context(), c.Param("email")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
