package handler

import (
	"time"

	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// AddAdminRequest names the email to grant admin access to. Emptiness and
// shape are checked by the registry so the panel gets its messages.
type AddAdminRequest struct {
	Email string `json:"email" binding:"max=254"`
}

// AdminResponse is an allow-list entry. The owner has Owner set and no AddedAt.
type AdminResponse struct {
	Email   string     `json:"email" example:"admin@shop.test"`
	AddedAt *time.Time `json:"added_at,omitempty"`
	Owner   bool       `json:"owner"`
}

func toAdminResponse(a *access.AllowedAdmin) AdminResponse {
	resp := AdminResponse{Email: a.Email}
	if !a.AddedAt.IsZero() {
		addedAt := a.AddedAt
		resp.AddedAt = &addedAt
	}
	return resp
}

// ownerResponse lists the implicit owner entry when it matches the search
func ownerResponse(owner access.Owner, search string) (AdminResponse, bool) {
	if !shared.MatchesAnyFold(search, owner.String()) {
		return AdminResponse{}, false
	}
	return AdminResponse{Email: owner.String(), Owner: true}, true
}
