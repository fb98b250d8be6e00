package service

import (
	"errors"

	"github.com/eventsphere/backend/internal/models"
	"github.com/eventsphere/backend/pkg/bcrypt"
	jwtPkg "github.com/eventsphere/backend/pkg/jwt"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrProfileNotFound    = errors.New("user profile not found")
)

// AccountStore is the persistence surface for signup and login.
// *repository.UserRepository satisfies it.
type AccountStore interface {
	Create(user *models.User) error
	CreateProfile(profile *models.UserProfile) error
	GetByUsername(username string) (*models.User, error)
	GetProfileByUserID(userID uint) (*models.UserProfile, error)
	UsernameExists(username string) (bool, error)
	EmailExists(email string) (bool, error)
	UpdateProfile(profile *models.UserProfile) error
}

type AuthService struct {
	users  AccountStore
	mailer Notifier
}

func NewAuthService(users AccountStore, mailer Notifier) *AuthService {
	return &AuthService{
		users:  users,
		mailer: mailer,
	}
}

// Register creates the account and its role profile together.
func (s *AuthService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	taken, err := s.users.UsernameExists(req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.users.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		UserID:       user.ID,
		Role:         models.UserRole(req.Role),
		ContactEmail: user.Email,
	}
	if err := s.users.CreateProfile(profile); err != nil {
		return nil, err
	}

	go s.mailer.SendWelcomeEmail(user.Email, user.Username)

	token, err := jwtPkg.GenerateToken(user.ID, user.Username, string(profile.Role), user.IsAdmin)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token:   token,
		User:    *user,
		Profile: *profile,
	}, nil
}

func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByUsername(req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.users.GetProfileByUserID(user.ID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	token, err := jwtPkg.GenerateToken(user.ID, user.Username, string(profile.Role), user.IsAdmin)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token:   token,
		User:    *user,
		Profile: *profile,
	}, nil
}
