package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cater-menu-backend/internal/models"
	"cater-menu-backend/internal/repository"
	"cater-menu-backend/pkg/logger"
	"cater-menu-backend/pkg/validator"
)

type AuthService struct {
	userRepo  repository.UserRepository
	validator *validator.MenuValidator
	jwtSecret string
}

func NewAuthService(userRepo repository.UserRepository, v *validator.MenuValidator, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		validator: v,
		jwtSecret: jwtSecret,
	}
}

// Login validates the submitted credentials before they touch storage and
// returns a signed token on success. Lookup and comparison failures collapse
// into the same ErrInvalidCredentials so usernames cannot be probed.
func (s *AuthService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	sanitized, err := s.validator.ValidateLogin(req)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(sanitized.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(sanitized.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

func (s *AuthService) generateToken(user *models.AdminUser) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
}

// EnsureAdmin creates the bootstrap admin account when no user exists yet.
// The password must already satisfy the login policy; a weak bootstrap
// password is a configuration error, not something to silently accept.
func (s *AuthService) EnsureAdmin(username, password string) error {
	count, err := s.userRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if password == "" {
		logger.Warn("No admin account exists and ADMIN_PASSWORD is not set; admin API will be unreachable", nil)
		return nil
	}

	if _, err := s.validator.ValidateLogin(models.LoginRequest{Username: username, Password: password}); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.AdminUser{
		Username: username,
		Password: string(hashed),
		Role:     "admin",
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	logger.Info("Bootstrap admin account created", map[string]interface{}{"username": username})
	return nil
}
