package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	customerapp "github.com/shopadmin/backend/internal/application/customer"
	"github.com/shopadmin/backend/internal/domain/customer"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// UserService manages storefront consumer accounts
type UserService interface {
	List(ctx context.Context, filter customerapp.ListFilter) (shared.Paginated[customer.User], error)
	Get(ctx context.Context, id string) (*customer.User, error)
	Update(ctx context.Context, id string, input customerapp.UpdateInput) (*customer.User, error)
	Delete(ctx context.Context, id string) error
	SendPasswordReset(ctx context.Context, email string) error
}

// UserHandler handles consumer account HTTP requests
type UserHandler struct {
	BaseHandler
	users UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /users
// List storefront accounts, newest first, searching display name, email and
// phone
func (h *UserHandler) List(c *gin.Context) {
	var query UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.users.List(c.Request.Context(), customerapp.ListFilter{
		Search: query.Search,
		Page:   shared.Page{Page: query.Page, PageSize: query.PageSize},
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toUserResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}

// Update handles PUT /users/:id
// Change a user's display name and phone number
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), customerapp.UpdateInput{
		DisplayName: req.DisplayName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}

// Delete handles DELETE /users/:id
// Delete the account record. The sign-in identity is left untouched.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SendPasswordReset handles POST /users/password-reset
// Mail a password reset link to a storefront account
func (h *UserHandler) SendPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.users.SendPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "Password reset email sent"})
}
