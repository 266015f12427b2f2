package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paradise-tours/internal/data/entity"
	"paradise-tours/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubSessionRepo struct {
	session *entity.Session
}

func (s *stubSessionRepo) Create(context.Context, *entity.Session) error { return nil }

func (s *stubSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	if s.session != nil && s.session.Token.String() == token {
		return s.session, nil
	}
	return nil, nil
}

func (s *stubSessionRepo) Revoke(context.Context, string) error { return nil }

type stubUserRepo struct {
	user *entity.User
}

func (s *stubUserRepo) Create(context.Context, *entity.User) error { return nil }

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

func (s *stubUserRepo) FindByEmail(context.Context, string) (*entity.User, error) { return nil, nil }
func (s *stubUserRepo) FindAll(context.Context) ([]*entity.User, error)           { return nil, nil }
func (s *stubUserRepo) FindAvailableGuides(context.Context) ([]*entity.User, error) {
	return nil, nil
}
func (s *stubUserRepo) Update(context.Context, *entity.User) error { return nil }
func (s *stubUserRepo) Delete(context.Context, uuid.UUID) error    { return nil }
func (s *stubUserRepo) CountByRole(context.Context, entity.UserRole) (int64, error) {
	return 0, nil
}

func authFixture(role entity.UserRole, suspended bool) (*stubSessionRepo, *stubUserRepo, string) {
	user := &entity.User{
		Base:      entity.Base{ID: uuid.New()},
		Name:      "Made Putri",
		Email:     "made@example.com",
		Role:      role,
		Suspended: suspended,
	}
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New()},
		UserID:     user.ID,
		Token:      uuid.New(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	return &stubSessionRepo{session: session}, &stubUserRepo{user: user}, session.Token.String()
}

func TestAuthSession(t *testing.T) {
	sessions, users, token := authFixture(entity.RoleUser, false)

	var gotUserID string
	handler := AuthSession(sessions, users, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := utils.GetUserIDFromContext(r.Context())
		assert.True(t, ok)
		gotUserID = id.String()
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, users.user.ID.String(), gotUserID)
}

func TestAuthSessionRejects(t *testing.T) {
	sessions, users, token := authFixture(entity.RoleUser, false)
	handler := AuthSession(sessions, users, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"unknown token", "Bearer " + uuid.NewString(), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuthSessionBlocksSuspended(t *testing.T) {
	sessions, users, token := authFixture(entity.RoleUser, true)
	handler := AuthSession(sessions, users, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guard := RequireRole(entity.RoleAdmin, zap.NewNop())(next)

	// No identity on context.
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Wrong role.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), string(entity.RoleUser)))
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Matching role.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), string(entity.RoleAdmin)))
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
