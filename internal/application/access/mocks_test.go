package access

import (
	"context"
	"sync"

	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/stretchr/testify/mock"
)

// MockAllowListRepository is a mock implementation of access.AllowListRepository
type MockAllowListRepository struct {
	mock.Mock
}

func (m *MockAllowListRepository) FindAll(ctx context.Context) ([]access.AllowedAdmin, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]access.AllowedAdmin), args.Error(1)
}

func (m *MockAllowListRepository) Save(ctx context.Context, admin *access.AllowedAdmin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAllowListRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockIdentityVerifier is a mock implementation of IdentityVerifier
type MockIdentityVerifier struct {
	mock.Mock
}

func (m *MockIdentityVerifier) VerifyIDToken(ctx context.Context, idToken string) (*access.Identity, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.Identity), args.Error(1)
}

// MockAuthorizer is a mock implementation of Authorizer
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) IsAuthorized(ctx context.Context, email string) bool {
	args := m.Called(ctx, email)
	return args.Bool(0)
}

// MockInvalidationPublisher is a mock implementation of InvalidationPublisher
type MockInvalidationPublisher struct {
	mock.Mock
}

func (m *MockInvalidationPublisher) PublishInvalidation(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSessionRecorder is a mock implementation of SessionRecorder
type MockSessionRecorder struct {
	mock.Mock
}

func (m *MockSessionRecorder) RecordLogin(ctx context.Context, outcome string) {
	m.Called(ctx, outcome)
}

// memoryAllowList is an in-memory access.AllowListRepository keyed by entry ID
type memoryAllowList struct {
	mu      sync.Mutex
	entries map[string]access.AllowedAdmin
	fail    error
}

func newMemoryAllowList(emails ...string) *memoryAllowList {
	r := &memoryAllowList{entries: make(map[string]access.AllowedAdmin)}
	for _, e := range emails {
		r.entries[e] = access.AllowedAdmin{ID: e, Email: e}
	}
	return r
}

// seed stores an entry under an arbitrary document ID
func (r *memoryAllowList) seed(id, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = access.AllowedAdmin{ID: id, Email: email}
}

func (r *memoryAllowList) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	return out
}

func (r *memoryAllowList) FindAll(context.Context) ([]access.AllowedAdmin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	out := make([]access.AllowedAdmin, 0, len(r.entries))
	for _, a := range r.entries {
		out = append(out, a)
	}
	return out, nil
}

func (r *memoryAllowList) Save(_ context.Context, admin *access.AllowedAdmin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[admin.ID] = *admin
	return nil
}

func (r *memoryAllowList) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}
