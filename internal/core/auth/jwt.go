package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the identity carried by an access token.
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type JWTService struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey string, tokenTTL time.Duration) *JWTService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &JWTService{
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
	}
}

// GenerateToken generates a signed access token
func (s *JWTService) GenerateToken(claims *TokenClaims) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	jwtClaims := jwt.MapClaims{
		"user_id": claims.UserID,
		"email":   claims.Email,
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, int64(s.tokenTTL.Seconds()), nil
}

// ValidateToken validates an access token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)

	return &TokenClaims{
		UserID: userID,
		Email:  email,
	}, nil
}
