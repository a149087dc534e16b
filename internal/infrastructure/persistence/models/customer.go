package models

import (
	"github.com/shopadmin/backend/internal/domain/customer"
)

// UserModel is a document of the users collection
type UserModel struct {
	DisplayName string `firestore:"displayName"`
	Email       string `firestore:"email"`
	PhotoURL    string `firestore:"photoURL"`
	PhoneNumber string `firestore:"phoneNumber"`
	CreatedAt   any    `firestore:"createdAt"`
	UpdatedAt   any    `firestore:"updatedAt"`
}

// ToDomain converts the document
func (m *UserModel) ToDomain(id string) customer.User {
	return customer.User{
		ID:          id,
		DisplayName: m.DisplayName,
		Email:       m.Email,
		PhotoURL:    m.PhotoURL,
		PhoneNumber: m.PhoneNumber,
		CreatedAt:   Time(m.CreatedAt),
		UpdatedAt:   Time(m.UpdatedAt),
	}
}
