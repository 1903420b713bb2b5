package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/cache"
)

// ContextUserIDKey is the gin context key holding the authenticated user's ID.
const ContextUserIDKey = "userID"

// jwtClaims mirrors the payload produced by authService.generateJWT.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores the subject's
// ObjectID in the gin context. Expired and malformed tokens both map to
// 401 with distinct messages.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "authorization header is missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "authorization header format must be Bearer {token}")
			return
		}

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "invalid token")
			}
			return
		}
		if !token.Valid || claims.UserID == "" {
			abortWithError(c, http.StatusUnauthorized, "invalid token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// abortWithError writes a JSON error body and stops the chain.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// currentUserID reads the authenticated user's ID set by AuthMiddleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, error) {
	raw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	id, ok := raw.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid user ID type in context")
	}
	return id, nil
}

// parseObjectID converts a path parameter to an ObjectID.
func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("invalid %s", param))
		return primitive.NilObjectID, false
	}
	return id, true
}

const jsonContentType = "application/json; charset=utf-8"

// serveFromCache writes the cached payload when present. Cache errors count
// as misses, the request proceeds against the database.
func serveFromCache(c *gin.Context, store cache.Cache, key string) bool {
	data, err := store.Get(c.Request.Context(), key)
	if err != nil {
		return false
	}
	c.Data(http.StatusOK, jsonContentType, data)
	return true
}

// respondAndCache renders the payload once, stores it under key and writes
// the response. A failed store is ignored.
func respondAndCache(c *gin.Context, store cache.Cache, key string, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to encode response")
		return
	}
	_ = store.Set(c.Request.Context(), key, data, cache.DefaultTTL)
	c.Data(status, jsonContentType, data)
}

// invalidate drops cache keys, best effort.
func invalidate(c *gin.Context, store cache.Cache, keys ...string) {
	_ = store.Delete(c.Request.Context(), keys...)
}
