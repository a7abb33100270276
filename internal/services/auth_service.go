package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"atelier/internal/apperrors"
	"atelier/internal/models"
	"atelier/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair is an access token plus the opaque refresh token persisted
// on the user row.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles password hashing, token issuance and session
// authentication.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// HashPassword hashes a plaintext password with the configured cost.
func (s *AuthService) HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.bcryptCost)
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
func (s *AuthService) VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// IssueToken signs an access token carrying the user id, username and
// role claims.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      now.Add(s.tokenTTL).Unix(),
		"iat":      now.Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("failed to sign token: %w", err))
	}
	return signed, nil
}

// IssueTokens issues an access token and a fresh opaque refresh token,
// persisting the refresh token on the user row. Called only after the
// provisioning transaction has committed.
func (s *AuthService) IssueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	refresh := newOpaqueToken()
	user.RefreshToken = refresh
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ValidateToken parses and verifies an access token, returning its
// claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperrors.Unauthenticated("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.Unauthenticated("invalid token")
	}
	return claims, nil
}

// Login authenticates a user by username and password and issues a token
// pair. The error never reveals whether the username exists.
func (s *AuthService) Login(username, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, nil, apperrors.Unauthenticated("invalid credentials")
	}
	if !s.VerifyPassword(password, user.Password) {
		return nil, nil, apperrors.Unauthenticated("invalid credentials")
	}
	pair, err := s.IssueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a persisted refresh token for a new token pair,
// rotating the refresh token.
func (s *AuthService) Refresh(refreshToken string) (*models.User, *TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, apperrors.Unauthenticated("refresh token required")
	}
	user, err := s.userRepo.GetByRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, apperrors.Unauthenticated("invalid refresh token")
	}
	pair, err := s.IssueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout clears the persisted refresh token, invalidating the session.
func (s *AuthService) Logout(userID string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	user.RefreshToken = ""
	return s.userRepo.Update(user)
}

// GetProfile returns the user row for the authenticated user.
func (s *AuthService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FullName string `json:"full_name" validate:"omitempty,max=255"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// UpdateProfile applies the non-empty fields of upd to the user.
func (s *AuthService) UpdateProfile(userID string, upd ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if upd.FullName != "" {
		user.FullName = upd.FullName
	}
	if upd.Email != "" {
		user.Email = upd.Email
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// newOpaqueToken returns a 64-character high-entropy hex token used for
// refresh tokens and referral links.
func newOpaqueToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("crypto/rand: %v", err))
	}
	return hex.EncodeToString(buf)
}
