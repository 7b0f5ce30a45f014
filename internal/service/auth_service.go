package service

import (
	"errors"
	"os"
	"time"

	"inspectkit/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles operator authentication
type AuthService struct {
	operatorUsername string
	operatorPassword string
	jwtSecret        []byte
}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	username := os.Getenv("OPERATOR_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("OPERATOR_PASSWORD")
	if password == "" {
		password = "password123"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super-secret-key-change-in-production"
	}

	return &AuthService{
		operatorUsername: username,
		operatorPassword: password,
		jwtSecret:        []byte(secret),
	}
}

// OperatorID derives the stable id for a username. Template ownership is
// keyed on this, so it must survive re-login and token expiry.
func OperatorID(username string) string {
	return "op_" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(username)).String()[:8]
}

// Login validates credentials and returns an operator token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.operatorUsername || password != s.operatorPassword {
		return nil, ErrInvalidCredentials
	}

	operatorID := OperatorID(username)

	claims := &model.OperatorClaims{
		OperatorID: operatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:      tokenString,
		OperatorID: operatorID,
	}, nil
}

// ValidateOperatorToken validates an operator JWT and returns claims
func (s *AuthService) ValidateOperatorToken(tokenString string) (*model.OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.OperatorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
