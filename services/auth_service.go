package services

import (
	"errors"
	"time"

	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/forms"
	"smartapp-notes/smartapp/models"
	"smartapp-notes/smartapp/utils/token"

	"golang.org/x/crypto/bcrypt"
)

type JWTClaims = token.JWTClaims

type AuthServiceInterface interface {
	Register(db *database.Database, input forms.RegisterInput) (models.User, error)
	Login(db *database.Database, username, password string) (string, models.User, error)
	GenerateToken(user models.User) (string, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	HashPassword(password string) (string, error)
	ComparePasswords(hashedPassword, password string) error
	TokenTTL() time.Duration
}

type AuthService struct {
	jwtSecret     []byte
	jwtExpiration time.Duration
	users         UserServiceInterface
}

func NewAuthService(jwtSecret string, jwtExpirationHours int, users UserServiceInterface) *AuthService {
	if users == nil {
		users = UserServiceInstance
	}
	return &AuthService{
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: time.Duration(jwtExpirationHours) * time.Hour,
		users:         users,
	}
}

func (s *AuthService) Register(db *database.Database, input forms.RegisterInput) (models.User, error) {
	valid, err := forms.ValidateRegister(input)
	if err != nil {
		return models.User{}, err
	}

	hash, err := s.HashPassword(valid.Password)
	if err != nil {
		return models.User{}, err
	}

	return s.users.CreateUser(db, models.User{
		Username:     valid.Username,
		PasswordHash: hash,
	})
}

// Login checks the credentials and issues a signed session token.
func (s *AuthService) Login(db *database.Database, username, password string) (string, models.User, error) {
	user, err := s.users.GetUserByUsername(db, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, err
	}

	if err := s.ComparePasswords(user.PasswordHash, password); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	tokenString, err := s.GenerateToken(user)
	if err != nil {
		return "", models.User{}, err
	}
	return tokenString, user, nil
}

func (s *AuthService) GenerateToken(user models.User) (string, error) {
	return token.GenerateToken(user.ID, user.Username, s.jwtSecret, s.jwtExpiration)
}

func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	return token.ValidateToken(tokenString, s.jwtSecret)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.jwtExpiration
}

var AuthServiceInstance AuthServiceInterface
