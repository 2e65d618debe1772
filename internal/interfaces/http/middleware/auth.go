package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DrZedd42/fiat-gateway/pkg/jwt"
	"github.com/DrZedd42/fiat-gateway/pkg/signature"
)

const (
	// CallerAddressKey holds the authenticated on-chain address
	CallerAddressKey = "caller_address"
	// CallerRoleKey holds the caller's role, set by JWT auth only
	CallerRoleKey = "caller_role"

	AddressHeader   = "X-Gateway-Address"
	SignatureHeader = "X-Gateway-Signature"
	BearerPrefix    = "Bearer "
)

// SignatureAuthMiddleware authenticates callers by an EIP-191 personal
// signature over the raw request body. The recovered signer must match
// the claimed address header; the address becomes the caller identity
// for the handler chain. GET requests sign the request path instead of
// the (empty) body.
func SignatureAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		address := c.GetHeader(AddressHeader)
		sigHex := c.GetHeader(SignatureHeader)
		if address == "" || sigHex == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing signature headers"})
			return
		}

		message := []byte(c.Request.URL.RequestURI())
		if c.Request.Body != nil && c.Request.Method != http.MethodGet {
			bodyBytes, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "failed to read request body"})
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			message = bodyBytes
		}

		if err := signature.Verify(message, sigHex, address); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid signature"})
			return
		}

		c.Set(CallerAddressKey, address)
		c.Next()
	}
}

// JWTAuthMiddleware authenticates the admin surface with bearer tokens
func JWTAuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			msg := "invalid token"
			if err == jwt.ErrExpiredToken {
				msg = "token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}

		c.Set(CallerAddressKey, claims.Address)
		c.Set(CallerRoleKey, claims.Role)
		c.Next()
	}
}

// RequireOwner guards owner-only routes. Runs after JWTAuthMiddleware.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, ok := GetCallerRole(c); !ok || role != jwt.RoleOwner {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "owner access required"})
			return
		}
		c.Next()
	}
}

// GetCallerAddress returns the authenticated caller address
func GetCallerAddress(c *gin.Context) (string, bool) {
	address, ok := c.Get(CallerAddressKey)
	if !ok {
		return "", false
	}
	s, ok := address.(string)
	return s, ok
}

// GetCallerRole returns the caller role set by JWT auth
func GetCallerRole(c *gin.Context) (string, bool) {
	role, ok := c.Get(CallerRoleKey)
	if !ok {
		return "", false
	}
	s, ok := role.(string)
	return s, ok
}
