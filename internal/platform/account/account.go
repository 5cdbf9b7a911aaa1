package account

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"accounthub/internal/database"
	"accounthub/pkg/utils"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrEmailRequired    = fmt.Errorf("%w: email is required", ErrInvalidInput)
	ErrUsernameRequired = fmt.Errorf("%w: username is required", ErrInvalidInput)

	ErrAccountNotFound = errors.New("account not found")
)

// NormalizeEmail folds an address to its stored form. Addresses differing
// only by case or surrounding whitespace map to the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateUser is the sanctioned entry point for regular account creation.
// The password may be empty, in which case the account carries no usable
// credential until one is set. Email uniqueness is left to the store's
// constraint; a duplicate surfaces as the store's duplicate-key error.
func (s *Service) CreateUser(email, username, password string) (*database.Account, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmailRequired
	}
	if username == "" {
		return nil, ErrUsernameRequired
	}

	acct := &database.Account{
		Email:    NormalizeEmail(email),
		Username: username,
		IsActive: true,
		IsStaff:  true,
		HideMail: true,
	}
	if password != "" {
		acct.PasswordHash = utils.HashPassword(password)
	}

	result := s.db.Create(acct)
	if result.Error != nil {
		return nil, result.Error
	}
	return acct, nil
}

// CreateSuperuser builds a regular account and escalates it. The escalation
// is a second write; the final stored state is what matters.
func (s *Service) CreateSuperuser(email, username, password string) (*database.Account, error) {
	acct, err := s.CreateUser(email, username, password)
	if err != nil {
		return nil, err
	}

	acct.IsAdmin = true
	acct.IsStaff = true
	acct.IsSuperuser = true
	acct.IsActive = true

	result := s.db.Save(acct)
	if result.Error != nil {
		return nil, result.Error
	}
	return acct, nil
}

func (s *Service) GetByID(id uuid.UUID) (*database.Account, error) {
	var acct database.Account

	result := s.db.Preload("Groups").Preload("Permissions").First(&acct, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, result.Error
	}
	return &acct, nil
}

func (s *Service) GetByEmail(email string) (*database.Account, error) {
	var acct database.Account

	result := s.db.Preload("Groups").Preload("Permissions").First(&acct, "email = ?", NormalizeEmail(email))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, result.Error
	}
	return &acct, nil
}

func (s *Service) Update(acct *database.Account) error {
	result := s.db.Save(acct)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (s *Service) UpdatePassword(acct *database.Account, password string) error {
	acct.PasswordHash = utils.HashPassword(password)

	result := s.db.Save(acct)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// CheckPassword verifies a plaintext candidate against the stored hash,
// dispatching on format so imported legacy hashes keep working.
func CheckPassword(acct *database.Account, password string) bool {
	if acct.PasswordHash == "" {
		return false
	}
	if strings.HasPrefix(acct.PasswordHash, "$argon2id$") {
		return utils.VerifyPassword(password, acct.PasswordHash)
	}
	return utils.VerifyLegacyPassword(password, acct.PasswordHash)
}
