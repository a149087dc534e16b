package access

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/shopadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Registry manages the allow-list collection
type Registry struct {
	repo   access.AllowListRepository
	gate   *Gate
	logger *zap.Logger
	now    func() time.Time
}

// NewRegistry creates an allow-list registry that invalidates gate on every mutation
func NewRegistry(repo access.AllowListRepository, gate *Gate, logger *zap.Logger) *Registry {
	return &Registry{
		repo:   repo,
		gate:   gate,
		logger: logger,
		now:    time.Now,
	}
}

// List returns stored entries sorted by email, filtered by a case-insensitive substring
func (r *Registry) List(ctx context.Context, search string) ([]access.AllowedAdmin, error) {
	admins, err := r.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list allowed admins: %w", err)
	}

	out := make([]access.AllowedAdmin, 0, len(admins))
	for _, a := range admins {
		if shared.ContainsFold(a.Email, search) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// Add validates and stores a new admin email. Validation happens before any store call.
func (r *Registry) Add(ctx context.Context, rawEmail string) (*access.AllowedAdmin, error) {
	admin, err := access.NewAllowedAdmin(rawEmail, r.now())
	if err != nil {
		return nil, err
	}
	if r.gate.Owner().Matches(admin.Email) {
		return nil, access.ErrAdminExists
	}

	existing, err := r.matching(ctx, admin.Email)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, access.ErrAdminExists
	}

	if err := r.repo.Save(ctx, admin); err != nil {
		return nil, fmt.Errorf("save allowed admin: %w", err)
	}
	r.gate.Invalidate(ctx)

	r.logger.Info("Admin added to allow-list", zap.String("email", admin.Email))
	return admin, nil
}

// Remove deletes an admin email. Sessions already issued to it stay valid
// until their next refresh, which re-checks the allow-list.
func (r *Registry) Remove(ctx context.Context, rawEmail string) error {
	email := access.NormalizeEmail(rawEmail)
	if err := access.ValidateEmail(email); err != nil {
		return err
	}
	if r.gate.Owner().Matches(email) {
		return access.ErrOwnerImmutable
	}

	entries, err := r.matching(ctx, email)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return shared.ErrNotFound
	}

	// Invalidate even on partial failure, some entries may be gone already.
	defer r.gate.Invalidate(ctx)
	for _, e := range entries {
		if err := r.repo.Delete(ctx, e.ID); err != nil {
			return fmt.Errorf("delete allowed admin %s: %w", e.ID, err)
		}
	}

	r.logger.Info("Admin removed from allow-list",
		zap.String("email", email),
		zap.Int("entries", len(entries)))
	return nil
}

// matching returns every stored entry whose normalized email equals email,
// whatever document ID it is stored under.
func (r *Registry) matching(ctx context.Context, email string) ([]access.AllowedAdmin, error) {
	admins, err := r.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list allowed admins: %w", err)
	}
	var out []access.AllowedAdmin
	for _, a := range admins {
		if access.NormalizeEmail(a.Email) == email {
			out = append(out, a)
		}
	}
	return out, nil
}
