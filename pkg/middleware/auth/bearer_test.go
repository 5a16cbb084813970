package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/yoneltic/pkg/tokens"
)

func testParams() tokens.Params {
	return tokens.Params{
		Key:      []byte("middleware-test-key-0123456789abcdef"),
		Issuer:   "yoneltic",
		Audience: "yoneltic-panel",
		TTL:      time.Hour,
	}
}

func runRequireAdmin(t *testing.T, header string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admins", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := NewBearerAuth(testParams())
	err := mw.RequireAdmin(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, c, err
}

func TestRequireAdmin_ValidToken(t *testing.T) {
	t.Parallel()

	token, _, err := tokens.NewAccessToken(testParams(), "42", "root", time.Now())
	require.NoError(t, err)

	rec, c, err := runRequireAdmin(t, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(42), AdminID(c))
	assert.Equal(t, "root", c.Get(CtxUsername))
}

func TestRequireAdmin_Rejects(t *testing.T) {
	t.Parallel()

	foreign := testParams()
	foreign.Audience = "storefront"
	foreignToken, _, err := tokens.NewAccessToken(foreign, "1", "root", time.Now())
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "empty token", header: "Bearer   "},
		{name: "garbage", header: "Bearer not-a-jwt"},
		{name: "wrong audience", header: "Bearer " + foreignToken},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := runRequireAdmin(t, tt.header)
			require.Error(t, err)
			he, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnauthorized, he.Code)
		})
	}
}

func TestBearerToken_CaseInsensitiveScheme(t *testing.T) {
	t.Parallel()

	tok, ok := bearerToken("bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)
}
