package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"padoca/internal/caching"
	"padoca/internal/common"
	"padoca/internal/models"
	"padoca/internal/repositories"
)

// TokenClaims are the JWT claims carried by every access token. ClientID is
// nil for internal staff.
type TokenClaims struct {
	UserID   int64           `json:"user_id"`
	Role     models.RoleType `json:"role"`
	ClientID *int64          `json:"client_id,omitempty"`
	jwt.RegisteredClaims
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService authenticates users and manages token issuance. Refresh tokens
// are opaque, stored hashed in the cache; access tokens are HS256 JWTs.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*TokenResponse, *models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Register(ctx context.Context, user *models.User, password string) error
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	userRepo   repositories.UserRepository
	cacheSvc   caching.CacheService
	jwtSecret  []byte
	tokenTTL   int // seconds
	refreshTTL int // seconds
}

func NewAuthService(userRepo repositories.UserRepository, cacheSvc caching.CacheService, jwtSecret string, tokenTTLSeconds, refreshTTLSeconds int) AuthService {
	return &authService{
		userRepo:   userRepo,
		cacheSvc:   cacheSvc,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTLSeconds,
		refreshTTL: refreshTTLSeconds,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenResponse, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, common.NewBadRequest("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, common.NewBadRequest("invalid email or password")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	tokenHash := hashToken(refreshToken)
	cacheKey := fmt.Sprintf("padoca:refresh_token:%s", tokenHash)
	stored, err := s.cacheSvc.GetString(ctx, cacheKey)
	if err != nil {
		return nil, err
	}
	if stored == "" {
		return nil, common.NewForbidden("refresh token invalid or expired")
	}

	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		return nil, common.NewForbidden("refresh token invalid or expired")
	}
	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, common.NewForbidden("refresh token invalid or expired")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.NewForbidden("refresh token invalid or expired")
	}

	// Rotate: the old token is single-use.
	if err := s.cacheSvc.Delete(ctx, cacheKey); err != nil {
		log.Printf("failed to revoke used refresh token: %v", err)
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) Register(ctx context.Context, user *models.User, password string) error {
	if !user.Role.Valid() {
		return common.NewBadRequest("unknown role type: %s", user.Role)
	}
	if user.Role == models.RoleClient && (user.ClientID == nil || *user.ClientID <= 0) {
		return common.NewBadRequest("client user requires a company link")
	}
	if len(password) < 8 {
		return common.NewBadRequest("password must have at least 8 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return common.NewBadRequest("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	return s.userRepo.Create(ctx, user)
}

func (s *authService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.NewNotFound("user", userID)
	}
	return user, nil
}

func (s *authService) issueTokens(ctx context.Context, user *models.User) (*TokenResponse, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:   user.ID,
		Role:     user.Role,
		ClientID: user.ClientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "padoca-auth",
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.tokenTTL) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	refreshToken := generateSecureToken()
	cacheKey := fmt.Sprintf("padoca:refresh_token:%s", hashToken(refreshToken))
	value := fmt.Sprintf("%d:%d", user.ID, now.Unix()+int64(s.refreshTTL))
	if err := s.cacheSvc.SetString(ctx, cacheKey, value, time.Duration(s.refreshTTL)*time.Second); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.tokenTTL,
		RefreshToken: refreshToken,
	}, nil
}

func generateSecureToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return base64.URLEncoding.EncodeToString(bytes)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
