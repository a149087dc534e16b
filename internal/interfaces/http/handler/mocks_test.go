package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	accessapp "github.com/shopadmin/backend/internal/application/access"
	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	customerapp "github.com/shopadmin/backend/internal/application/customer"
	orderapp "github.com/shopadmin/backend/internal/application/order"
	"github.com/shopadmin/backend/internal/domain/access"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/customer"
	"github.com/shopadmin/backend/internal/domain/order"
	"github.com/shopadmin/backend/internal/domain/shared"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
	"github.com/shopadmin/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// newTestRouter returns an engine with request ids, as in production
func newTestRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	return router
}

// withClaims simulates the JWT middleware for an authenticated admin
func withClaims(email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := &auth.Claims{Email: email, Name: "Admin", TokenType: auth.TokenTypeAccess}
		claims.ID = "jti-1"
		claims.Subject = "uid-1"
		c.Set(middleware.JWTClaimsKey, claims)
		c.Set(middleware.JWTEmailKey, email)
		c.Next()
	}
}

// streamRecorder adds http.CloseNotifier to httptest.ResponseRecorder,
// which gin's Context.Stream requires.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func serveJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// testResponse mirrors dto.Response with a raw data field
type testResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success, rec.Body.String())
	var data T
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) *dto.ErrorInfo {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	require.Equal(t, code, resp.Error.Code)
	return resp.Error
}

// MockSessionService is a mock implementation of SessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Login(ctx context.Context, idToken string) (*accessapp.SessionResult, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessapp.SessionResult), args.Error(1)
}

func (m *MockSessionService) Refresh(ctx context.Context, refreshToken string) (*accessapp.SessionResult, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessapp.SessionResult), args.Error(1)
}

func (m *MockSessionService) Logout(ctx context.Context, claims *auth.Claims, refreshToken string) (*accessapp.SessionResult, error) {
	args := m.Called(ctx, claims, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessapp.SessionResult), args.Error(1)
}

func (m *MockSessionService) Current(claims *auth.Claims) *accessapp.SessionResult {
	args := m.Called(claims)
	return args.Get(0).(*accessapp.SessionResult)
}

// MockAdminRegistry is a mock implementation of AdminRegistry
type MockAdminRegistry struct {
	mock.Mock
}

func (m *MockAdminRegistry) List(ctx context.Context, search string) ([]access.AllowedAdmin, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]access.AllowedAdmin), args.Error(1)
}

func (m *MockAdminRegistry) Add(ctx context.Context, email string) (*access.AllowedAdmin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.AllowedAdmin), args.Error(1)
}

func (m *MockAdminRegistry) Remove(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, filter customerapp.ListFilter) (shared.Paginated[customer.User], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[customer.User]), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id string) (*customer.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id string, input customerapp.UpdateInput) (*customer.User, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) SendPasswordReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockProductService is a mock implementation of ProductService
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, filter catalogapp.ProductFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id string) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id string, product *catalog.Product) (*catalog.Product, error) {
	args := m.Called(ctx, id, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) UploadImage(ctx context.Context, gender catalog.Gender, productName, filename string, body io.Reader) (string, error) {
	args := m.Called(ctx, gender, productName, filename, body)
	return args.String(0), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) List(ctx context.Context, filter orderapp.ListFilter) (*orderapp.ListResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapp.ListResult), args.Error(1)
}

func (m *MockOrderService) Stats(ctx context.Context) (*order.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Stats), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, id string) (*order.MergedOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.MergedOrder), args.Error(1)
}

func (m *MockOrderService) GetTracking(ctx context.Context, orderID string) (*order.Tracking, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Tracking), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID string, input orderapp.UpdateStatusInput) (*order.Tracking, error) {
	args := m.Called(ctx, orderID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Tracking), args.Error(1)
}
