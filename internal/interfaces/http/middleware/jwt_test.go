package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinhub/backend/internal/infrastructure/auth"
	"github.com/vereinhub/backend/internal/infrastructure/config"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func issueTestToken(t *testing.T, jwtService *auth.JWTService) (*auth.TokenPair, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "testuser",
		Roles:    []string{"board", "editor"},
	}
	pair, err := jwtService.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair, input
}

// authedRouter mounts GET /test behind the middleware and captures the claims
// the handler saw
func authedRouter(mw gin.HandlerFunc) (*gin.Engine, *[]*auth.Claims) {
	var seen []*auth.Claims
	router := gin.New()
	router.Use(mw)
	router.GET("/test", func(c *gin.Context) {
		seen = append(seen, GetJWTClaims(c))
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func get(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtService := newTestJWTService()

	t.Run("valid token passes and publishes claims", func(t *testing.T) {
		pair, input := issueTestToken(t, jwtService)
		router, seen := authedRouter(JWTAuthMiddleware(jwtService))

		rec := get(router, "/test", "Bearer "+pair.AccessToken)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, *seen, 1)
		claims := (*seen)[0]
		require.NotNil(t, claims)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, input.Username, claims.Username)
	})

	t.Run("rejects requests without credentials", func(t *testing.T) {
		router, _ := authedRouter(JWTAuthMiddleware(jwtService))

		for name, header := range map[string]string{
			"no header":     "",
			"wrong scheme":  "Basic dXNlcjpwdw==",
			"empty bearer":  "Bearer ",
			"garbage token": "Bearer not-a-jwt",
		} {
			rec := get(router, "/test", header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		}
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		expiredService := auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			AccessTokenExpiration:  -time.Hour,
			RefreshTokenExpiration: 7 * 24 * time.Hour,
			Issuer:                 "test-issuer",
		})
		pair, _ := issueTestToken(t, expiredService)
		router, _ := authedRouter(JWTAuthMiddleware(expiredService))

		rec := get(router, "/test", "Bearer "+pair.AccessToken)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("refresh token is not accepted as access token", func(t *testing.T) {
		pair, _ := issueTestToken(t, jwtService)
		router, _ := authedRouter(JWTAuthMiddleware(jwtService))

		rec := get(router, "/test", "Bearer "+pair.RefreshToken)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("skip paths bypass authentication", func(t *testing.T) {
		router := gin.New()
		router.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
			JWTService: jwtService,
			SkipPaths:  []string{"/health", "/api/v1/auth/login"},
		}))
		router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/guarded", func(c *gin.Context) { c.Status(http.StatusOK) })

		assert.Equal(t, http.StatusOK, get(router, "/health", "").Code)
		assert.Equal(t, http.StatusUnauthorized, get(router, "/guarded", "").Code)
	})

	t.Run("custom error handler replaces the 401", func(t *testing.T) {
		called := false
		router := gin.New()
		router.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
			JWTService: jwtService,
			OnError: func(c *gin.Context, err error) {
				called = true
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"custom": "error"})
			},
		}))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		rec := get(router, "/test", "")

		assert.True(t, called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	jwtService := newTestJWTService()

	t.Run("revoked jti is rejected", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		pair, _ := issueTestToken(t, jwtService)

		claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Hour))

		router, _ := authedRouter(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
		}))

		rec := get(router, "/test", "Bearer "+pair.AccessToken)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "TOKEN_REVOKED")
	})

	t.Run("user-wide revocation rejects older tokens", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		pair, input := issueTestToken(t, jwtService)

		time.Sleep(2 * time.Millisecond)
		require.NoError(t, blacklist.AddUserTokensToBlacklist(context.Background(), input.UserID.String(), time.Hour))

		router, _ := authedRouter(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
		}))

		rec := get(router, "/test", "Bearer "+pair.AccessToken)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unrevoked token passes the blacklist", func(t *testing.T) {
		pair, _ := issueTestToken(t, jwtService)

		router, _ := authedRouter(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: auth.NewInMemoryTokenBlacklist(),
		}))

		rec := get(router, "/test", "Bearer "+pair.AccessToken)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestJWTContextAccessors(t *testing.T) {
	t.Run("populated after authentication", func(t *testing.T) {
		jwtService := newTestJWTService()
		pair, input := issueTestToken(t, jwtService)

		var userID, username string
		var roles []string
		router := gin.New()
		router.Use(JWTAuthMiddleware(jwtService))
		router.GET("/test", func(c *gin.Context) {
			userID = GetJWTUserID(c)
			username = GetJWTUsername(c)
			roles = GetJWTRoles(c)
			c.Status(http.StatusOK)
		})

		rec := get(router, "/test", "Bearer "+pair.AccessToken)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, input.UserID.String(), userID)
		assert.Equal(t, input.Username, username)
		assert.Equal(t, input.Roles, roles)
	})

	t.Run("empty outside an authenticated request", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		assert.Nil(t, GetJWTClaims(c))
		assert.Empty(t, GetJWTUserID(c))
		assert.Empty(t, GetJWTUsername(c))
		assert.Nil(t, GetJWTRoles(c))
	})
}
