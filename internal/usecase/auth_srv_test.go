package usecase

import (
	"context"
	"testing"

	"paradise-tours/internal/data/entity"
	"paradise-tours/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(st *store) AuthService {
	return NewAuthService(st.repo(), testConfig(), testNotifier(), zap.NewNop())
}

// lastOTP picks the newest code of a given type; registration issues a
// verification code in the background, so filtering by type keeps the
// tests deterministic.
func lastOTP(st *store, otpType entity.OTPType) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := len(st.otps) - 1; i >= 0; i-- {
		if st.otps[i].OTPType == otpType {
			return st.otps[i].OTPCode
		}
	}
	return ""
}

// markVerified flips the stored account to verified, standing in for the
// OTP round-trip the verification tests cover on their own.
func markVerified(t *testing.T, st *store, email string) {
	t.Helper()
	user, err := st.repo().User.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, user)
	user.EmailVerified = true
	require.NoError(t, st.repo().User.Update(context.Background(), user))
}

func registerRequest(email string) *request.RegisterRequest {
	phone := "081234567890"
	return &request.RegisterRequest{
		Name:     "Made Putri",
		Email:    email,
		Password: "s3cret-password",
		Phone:    &phone,
	}
}

func TestAuthRegister(t *testing.T) {
	st := newStore()
	svc := newAuthService(st)

	resp, err := svc.Register(context.Background(), registerRequest("made@example.com"))
	require.NoError(t, err)

	assert.Equal(t, entity.RoleUser, resp.Role)
	assert.False(t, resp.IsVerified)
	assert.Empty(t, resp.Token) // no session until the email is verified

	// The stored hash is never the raw password.
	user, err := st.repo().User.FindByEmail(context.Background(), "made@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEqual(t, "s3cret-password", user.PasswordHash)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	st := newStore()
	svc := newAuthService(st)

	_, err := svc.Register(context.Background(), registerRequest("made@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest("made@example.com"))
	assert.ErrorIs(t, err, entity.ErrConflict)
}

func TestAuthLogin(t *testing.T) {
	st := newStore()
	svc := newAuthService(st)

	_, err := svc.Register(context.Background(), registerRequest("made@example.com"))
	require.NoError(t, err)

	// Unverified accounts cannot log in.
	_, err = svc.Login(context.Background(), &request.LoginRequest{
		Email:    "made@example.com",
		Password: "s3cret-password",
	})
	assert.ErrorIs(t, err, entity.ErrForbidden)

	markVerified(t, st, "made@example.com")

	resp, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "made@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	// The token resolves to a live session.
	session, err := st.repo().Session.FindValidSession(context.Background(), resp.Token)
	require.NoError(t, err)
	require.NotNil(t, session)

	// Wrong password and unknown accounts fail alike.
	_, err = svc.Login(context.Background(), &request.LoginRequest{Email: "made@example.com", Password: "wrong-password"})
	assert.EqualError(t, err, "invalid credentials")
	_, err = svc.Login(context.Background(), &request.LoginRequest{Email: "nobody@example.com", Password: "whatever1"})
	assert.EqualError(t, err, "invalid credentials")
}

func TestAuthLoginSuspended(t *testing.T) {
	st := newStore()
	svc := newAuthService(st)

	_, err := svc.Register(context.Background(), registerRequest("made@example.com"))
	require.NoError(t, err)

	markVerified(t, st, "made@example.com")

	user, err := st.repo().User.FindByEmail(context.Background(), "made@example.com")
	require.NoError(t, err)
	user.Suspended = true
	require.NoError(t, st.repo().User.Update(context.Background(), user))

	_, err = svc.Login(context.Background(), &request.LoginRequest{
		Email:    "made@example.com",
		Password: "s3cret-password",
	})
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestAuthLogout(t *testing.T) {
	st := newStore()
	svc := newAuthService(st)

	_, err := svc.Register(context.Background(), registerRequest("made@example.com"))
	require.NoError(t, err)
	markVerified(t, st, "made@example.com")

	resp, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "made@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.Token))

	session, err := st.repo().Session.FindValidSession(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Nil(t, session)

	assert.Error(t, svc.Logout(context.Background(), "not-a-uuid"))
}

func TestAuthVerifyEmail(t *testing.T) {
	st := newStore()
	svc := newAuthService(st)

	_, err := svc.Register(context.Background(), registerRequest("made@example.com"))
	require.NoError(t, err)

	require.NoError(t, svc.SendOTP(context.Background(), "made@example.com", string(entity.OTPTypeEmailVerification)))
	code := lastOTP(st, entity.OTPTypeEmailVerification)
	require.NotEmpty(t, code)

	err = svc.VerifyEmail(context.Background(), &request.VerifyEmailRequest{Email: "made@example.com", OTP: "000000"})
	assert.ErrorIs(t, err, entity.ErrInvalidState)

	require.NoError(t, svc.VerifyEmail(context.Background(), &request.VerifyEmailRequest{Email: "made@example.com", OTP: code}))

	user, err := st.repo().User.FindByEmail(context.Background(), "made@example.com")
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)

	// Codes burn on use, and a verified account gets no new ones.
	err = svc.VerifyEmail(context.Background(), &request.VerifyEmailRequest{Email: "made@example.com", OTP: code})
	assert.ErrorIs(t, err, entity.ErrInvalidState)
	err = svc.SendOTP(context.Background(), "made@example.com", string(entity.OTPTypeEmailVerification))
	assert.ErrorIs(t, err, entity.ErrInvalidState)
}

func TestAuthResetPassword(t *testing.T) {
	st := newStore()
	svc := newAuthService(st)

	_, err := svc.Register(context.Background(), registerRequest("made@example.com"))
	require.NoError(t, err)
	markVerified(t, st, "made@example.com")

	require.NoError(t, svc.SendOTP(context.Background(), "made@example.com", string(entity.OTPTypePasswordReset)))
	code := lastOTP(st, entity.OTPTypePasswordReset)
	require.NotEmpty(t, code)

	require.NoError(t, svc.ResetPassword(context.Background(), &request.ResetPasswordRequest{
		Email:       "made@example.com",
		OTP:         code,
		NewPassword: "brand-new-password",
	}))

	_, err = svc.Login(context.Background(), &request.LoginRequest{Email: "made@example.com", Password: "s3cret-password"})
	assert.EqualError(t, err, "invalid credentials")

	_, err = svc.Login(context.Background(), &request.LoginRequest{Email: "made@example.com", Password: "brand-new-password"})
	assert.NoError(t, err)
}
