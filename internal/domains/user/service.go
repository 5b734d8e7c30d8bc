package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrMissingCredentials = errors.New("email and password required")
)

const (
	MinPasswordLength = 8
	DefaultTokenTTL   = 30 * 24 * time.Hour
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Claims represents JWT claims. Subject carries the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type UserService interface {
	Register(ctx context.Context, req Credentials) (*Session, error)
	Login(ctx context.Context, req Credentials) (*Session, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

type userService struct {
	repository UserRepository
	logger     *Logger.Logger
	jwtSecret  string
	tokenTTL   time.Duration
	now        func() time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, req Credentials) (*Session, error) {
	email := normalizeEmail(req.Email)
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	exists, err := s.repository.EmailExists(ctx, email)
	if err != nil {
		s.logger.Errorf("error checking email existence: %v", err)
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Errorf("error hashing password: %v", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  string(hashedPassword),
		CreatedAt: s.now(),
	}
	if err := s.repository.Create(ctx, user); err != nil {
		s.logger.Errorf("error creating user: %v", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infof("user registered successfully: %s", user.ID)
	return s.session(user)
}

func (s *userService) Login(ctx context.Context, req Credentials) (*Session, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.repository.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Errorf("error getting user by email: %v", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Infof("user logged in: %s", user.ID)
	return s.session(user)
}

func (s *userService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *userService) session(user *User) (*Session, error) {
	now := s.now()
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		s.logger.Errorf("error signing token: %v", err)
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &Session{Token: token, User: user.Account()}, nil
}

func NewUserService(repository UserRepository, logger *Logger.Logger, jwtSecret string, tokenTTL time.Duration) UserService {
	if tokenTTL == 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &userService{
		repository: repository,
		logger:     logger,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}
