package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testJWTSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// signToken builds a token the way the auth service does, with control
// over the secret and expiry.
func signToken(t *testing.T, secret string, userID primitive.ObjectID, expiresAt time.Time) string {
	t.Helper()
	claims := &jwtClaims{
		UserID: userID.Hex(),
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func protectedRouter() *gin.Engine {
	router := gin.New()
	router.GET("/protected", AuthMiddleware(testJWTSecret), func(c *gin.Context) {
		userID, err := getUserIDFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	userID := primitive.NewObjectID()
	router := protectedRouter()

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			authHeader: "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not.a.jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer " + signToken(t, testJWTSecret, userID, time.Now().Add(-time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong signing secret",
			authHeader: "Bearer " + signToken(t, "another-secret", userID, time.Now().Add(time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			authHeader: "Bearer " + signToken(t, testJWTSecret, userID, time.Now().Add(time.Hour)),
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), userID.Hex())
			}
		})
	}
}
