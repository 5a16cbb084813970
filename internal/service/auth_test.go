package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/yoneltic/internal/repo/repotest"
	"github.com/Skotchmaster/yoneltic/internal/transport"
	"github.com/Skotchmaster/yoneltic/pkg/tokens"
)

const testSecret = "let-me-in"

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo: repotest.NewRepo(t),
		Tokens: tokens.Params{
			Key:      []byte("test-jwt-secret"),
			Issuer:   "yoneltic-test",
			Audience: "yoneltic-admin",
			TTL:      time.Hour,
		},
		AdminSecret: testSecret,
	}
}

func registerReq(username, password string) transport.RegisterRequest {
	return transport.RegisterRequest{
		Username:       username,
		Password:       password,
		PasswordRepeat: password,
		SecretKey:      testSecret,
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  transport.RegisterRequest
	}{
		{name: "wrong secret", req: transport.RegisterRequest{Username: "u", Password: "p", PasswordRepeat: "p", SecretKey: "nope"}},
		{name: "empty secret", req: transport.RegisterRequest{Username: "u", Password: "p", PasswordRepeat: "p"}},
		{name: "passwords differ", req: transport.RegisterRequest{Username: "u", Password: "p", PasswordRepeat: "q", SecretKey: testSecret}},
		{name: "empty username", req: registerReq("   ", "p")},
		{name: "empty password", req: registerReq("u", "")},
		{name: "username too long", req: registerReq(strings.Repeat("a", 51), "p")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestAuthService(t)
			err := svc.Register(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Register_EmptyConfiguredSecretRejectsEverything(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	svc.AdminSecret = ""
	req := registerReq("admin", "pw")
	req.SecretKey = ""

	err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerReq("admin", "first")))
	err := svc.Register(ctx, registerReq("admin", "second"))
	require.ErrorIs(t, err, ErrValidation)

	admins, err := svc.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)

	_, err = svc.Login(ctx, "admin", "first")
	require.NoError(t, err, "the original password must still work")
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.Now = func() time.Time { return now }
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, registerReq("admin", "s3cret")))

	res, err := svc.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), res.ExpiresAt)

	assert.NotEmpty(t, res.Token)
}

func TestAuthService_Login_TokenValidates(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, registerReq("admin", "s3cret")))

	res, err := svc.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)

	claims, err := tokens.AccessClaimsFromToken(res.Token, svc.Tokens)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, tokens.RoleAdmin, claims.Role)
	assert.Equal(t, "1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthService_Login_TrimsUsername(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, registerReq("  bob  ", "s3cret")))

	for _, name := range []string{"bob", " bob ", "bob\t"} {
		_, err := svc.Login(ctx, name, "s3cret")
		assert.NoError(t, err, "%q", name)
	}

	_, err := svc.Login(ctx, "bob", " s3cret")
	assert.ErrorIs(t, err, ErrAuth, "the password is compared as given")
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, registerReq("admin", "s3cret")))

	_, unknownErr := svc.Login(ctx, "ghost", "s3cret")
	_, wrongErr := svc.Login(ctx, "admin", "wrong")
	_, emptyErr := svc.Login(ctx, "", "")

	require.ErrorIs(t, unknownErr, ErrAuth)
	require.ErrorIs(t, wrongErr, ErrAuth)
	require.ErrorIs(t, emptyErr, ErrAuth)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthService_AdminLifecycle(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, registerReq("alice", "pw-a")))
	require.NoError(t, svc.Register(ctx, registerReq("bob", "pw-b")))

	v, err := svc.GetAdmin(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", v.Username)

	_, err = svc.GetAdmin(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.UpdateAdmin(ctx, 1, transport.AdminUpdateRequest{Username: "bob"})
	assert.ErrorIs(t, err, ErrValidation, "username of another admin")

	require.NoError(t, svc.UpdateAdmin(ctx, 1, transport.AdminUpdateRequest{Username: "alice2"}))
	_, err = svc.Login(ctx, "alice2", "pw-a")
	require.NoError(t, err, "password must be kept when none is given")

	require.NoError(t, svc.UpdateAdmin(ctx, 1, transport.AdminUpdateRequest{Username: "alice2", Password: "new"}))
	_, err = svc.Login(ctx, "alice2", "pw-a")
	assert.ErrorIs(t, err, ErrAuth)
	_, err = svc.Login(ctx, "alice2", "new")
	require.NoError(t, err)

	err = svc.UpdateAdmin(ctx, 42, transport.AdminUpdateRequest{Username: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteAdmin(ctx, 2))
	assert.ErrorIs(t, svc.DeleteAdmin(ctx, 2), ErrNotFound)

	admins, err := svc.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "alice2", admins[0].Username)
}
