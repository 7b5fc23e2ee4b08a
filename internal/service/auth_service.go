package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// AuthService handles registration, login and token issuance.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (user *domain.User, token string, err error)
	Login(ctx context.Context, email, password string) (user *domain.User, token string, err error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register creates a new user account and returns it together with a
// fresh token so the client is logged in immediately.
func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", errors.New("name, email and password cannot be empty")
	}

	// Check for an existing account first. The unique email index catches
	// the race between this check and the insert.
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Avatar:       generatedAvatarURL(name),
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", err
	}
	user.ID = userID

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, "", ErrTokenGeneration
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Login authenticates a user and returns the account with a signed token.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", errors.New("email and password cannot be empty")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// An unknown email maps to the same failure as a bad password.
			return nil, "", ErrAuthenticationFailed
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, "", ErrTokenGeneration
	}

	user.PasswordHash = ""
	return user, token, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fitness-tracker",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// generatedAvatarURL builds the default avatar for a new account from
// the user's name.
func generatedAvatarURL(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=ef4444&color=fff", strings.ReplaceAll(name, " ", "+"))
}
