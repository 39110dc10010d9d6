package users

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrUsernameTaken indicates a registration attempt with an existing username.
	ErrUsernameTaken = errors.New("users: username already taken")
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords;
	// callers must not distinguish the two to avoid user enumeration.
	ErrInvalidCredentials = errors.New("users: invalid credentials")
	// ErrMissingFields indicates a registration payload without username or password.
	ErrMissingFields = errors.New("users: username and password required")
)

// ServiceConfig describes the dependencies required for account management.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
}

// Service manages account registration and credential verification.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService constructs the account service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("users: database connection required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{db: cfg.Database, now: clock}, nil
}

// Register creates an account with a bcrypt-hashed password. An empty or
// unknown timezone name is stored as UTC.
func (s *Service) Register(username, password, tzName string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	var existing User
	err := s.db.Where("username = ?", username).Take(&existing).Error
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tzName = strings.TrimSpace(tzName)
	if tzName == "" {
		tzName = "UTC"
	} else if _, err := time.LoadLocation(tzName); err != nil {
		tzName = "UTC"
	}

	user := User{
		Username:     username,
		PasswordHash: string(hash),
		CreationDate: s.now().UTC(),
		Timezone:     tzName,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies a username/password pair and returns the account.
func (s *Service) Authenticate(username, password string) (*User, error) {
	var user User
	err := s.db.Where("username = ?", strings.TrimSpace(username)).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// ByID loads an account by its primary key.
func (s *Service) ByID(id uint) (*User, error) {
	var user User
	if err := s.db.Take(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
