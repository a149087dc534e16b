package customer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"time"

	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/shopadmin/backend/internal/domain/customer"
	"github.com/shopadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ResetLinkGenerator creates password reset links with the identity provider
type ResetLinkGenerator interface {
	PasswordResetLink(ctx context.Context, email string) (string, error)
}

// Message is an outbound email
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// ErrMailDisabled is returned when outbound email is switched off, so a
// password reset cannot be delivered.
var ErrMailDisabled = shared.NewDomainError("MAIL_DISABLED", "Email delivery is not configured")

// Mailer delivers outbound email. Implementations that cannot deliver
// return ErrMailDisabled.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ListFilter selects and pages user records
type ListFilter struct {
	Search string
	shared.Page
}

// UpdateInput holds the admin-editable profile fields
type UpdateInput struct {
	DisplayName string
	PhoneNumber string
}

// Service manages consumer account records
type Service struct {
	repo   customer.UserRepository
	links  ResetLinkGenerator
	mailer Mailer
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a user management service
func NewService(repo customer.UserRepository, links ResetLinkGenerator, mailer Mailer, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		links:  links,
		mailer: mailer,
		logger: logger,
		now:    time.Now,
	}
}

// List returns matching users, newest first
func (s *Service) List(ctx context.Context, filter ListFilter) (shared.Paginated[customer.User], error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return shared.Paginated[customer.User]{}, fmt.Errorf("list users: %w", err)
	}

	matched := make([]customer.User, 0, len(users))
	for i := range users {
		if users[i].Matches(filter.Search) {
			matched = append(matched, users[i])
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return shared.Paginate(matched, filter.Page), nil
}

// Get returns one user
func (s *Service) Get(ctx context.Context, id string) (*customer.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update changes displayName and phoneNumber
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*customer.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(input.DisplayName, input.PhoneNumber, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}

	s.logger.Info("User profile updated", zap.String("user_id", id))
	return user, nil
}

// Delete removes the data record only. The identity provider account is left alone.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	s.logger.Info("User record deleted", zap.String("user_id", id))
	return nil
}

// SendPasswordReset mails a password reset link to the given address
func (s *Service) SendPasswordReset(ctx context.Context, rawEmail string) error {
	email := access.NormalizeEmail(rawEmail)
	if err := access.ValidateEmail(email); err != nil {
		return err
	}

	link, err := s.links.PasswordResetLink(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return err
		}
		s.logger.Error("Failed to generate password reset link", zap.String("email", email), zap.Error(err))
		return shared.NewDomainError("RESET_LINK_FAILED", "Failed to generate password reset link")
	}

	msg := Message{
		To:      email,
		Subject: "Reset your password",
		Text:    "Use the link below to reset your password:\n\n" + link,
		HTML: fmt.Sprintf(`<p>Use the link below to reset your password:</p><p><a href="%s">Reset password</a></p>`,
			html.EscapeString(link)),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		if errors.Is(err, ErrMailDisabled) {
			s.logger.Warn("Password reset requested with mail delivery disabled", zap.String("email", email))
			return ErrMailDisabled
		}
		s.logger.Error("Failed to send password reset email", zap.String("email", email), zap.Error(err))
		return shared.NewDomainError("EMAIL_SEND_FAILED", "Failed to send password reset email")
	}

	s.logger.Info("Password reset email sent", zap.String("email", email))
	return nil
}
