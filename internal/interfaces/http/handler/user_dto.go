package handler

import (
	"time"

	"github.com/shopadmin/backend/internal/domain/customer"
)

// UserListQuery is the query string of GET /users
type UserListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"10"`
}

// UpdateUserRequest holds the admin-editable profile fields
type UpdateUserRequest struct {
	DisplayName string `json:"display_name" binding:"max=100"`
	PhoneNumber string `json:"phone_number" binding:"max=30"`
}

// PasswordResetRequest names the account to send a reset link to
type PasswordResetRequest struct {
	Email string `json:"email" binding:"max=254"`
}

// UserResponse is a storefront consumer account
type UserResponse struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u *customer.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   optionalTime(u.CreatedAt),
		UpdatedAt:   optionalTime(u.UpdatedAt),
	}
}

func toUserResponses(users []customer.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	return out
}
