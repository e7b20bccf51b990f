package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	userIDLocal = "user_id"
	tokenCookie = "token"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID string `json:"user_id"`

	jwt.RegisteredClaims
}

// Authenticator resolves the caller identity from an HS256 token. With an
// empty secret every request is anonymous.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

func (a *Authenticator) GenerateToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) ValidateToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

// Optional stores the caller's user id when a token is present. A missing
// token is anonymous; a present but invalid token is rejected.
func (a *Authenticator) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(a.secret) == 0 {
			return c.Next()
		}
		raw := tokenFromRequest(c)
		if raw == "" {
			return c.Next()
		}
		userID, err := a.ValidateToken(raw)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}
		c.Locals(userIDLocal, userID)
		return c.Next()
	}
}

// RequireUser rejects anonymous requests. Mount it after Optional.
func RequireUser(c *fiber.Ctx) error {
	if _, ok := UserID(c); !ok {
		return unauthorized(c, "Authentication required")
	}
	return c.Next()
}

// UserID returns the authenticated caller, if any.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(userIDLocal).(uuid.UUID)
	return id, ok
}

func tokenFromRequest(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return c.Cookies(tokenCookie)
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
