package models

import (
	"github.com/shopadmin/backend/internal/domain/access"
)

// AllowedAdminModel is a document of the allowedUsers collection
type AllowedAdminModel struct {
	Email   string `firestore:"email"`
	AddedAt any    `firestore:"addedAt"`
}

// ToDomain converts the document. The document id wins when the email field is blank.
func (m *AllowedAdminModel) ToDomain(docID string) access.AllowedAdmin {
	email := access.NormalizeEmail(m.Email)
	if email == "" {
		email = access.NormalizeEmail(docID)
	}
	return access.AllowedAdmin{
		ID:      docID,
		Email:   email,
		AddedAt: Time(m.AddedAt),
	}
}

// AllowedAdminModelFromDomain builds the stored document
func AllowedAdminModelFromDomain(a *access.AllowedAdmin) *AllowedAdminModel {
	return &AllowedAdminModel{
		Email:   a.Email,
		AddedAt: a.AddedAt,
	}
}
