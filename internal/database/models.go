package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"accounthub/pkg/utils"
)

type Account struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Username     string    `json:"username"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	PasswordHash string    `json:"-"`
	// Both timestamps refresh on every save, matching the legacy schema.
	DateJoined  time.Time    `json:"date_joined" gorm:"autoUpdateTime"`
	LastLogin   time.Time    `json:"last_login" gorm:"autoUpdateTime"`
	IsAdmin     bool         `json:"is_admin" gorm:"default:false"`
	IsStaff     bool         `json:"is_staff" gorm:"default:true"`
	IsActive    bool         `json:"is_active" gorm:"default:false"`
	IsSuperuser bool         `json:"is_superuser" gorm:"default:false"`
	HideMail    bool         `json:"hide_mail" gorm:"default:true"`
	Groups      []Group      `json:"groups" gorm:"many2many:account.account_group;foreignKey:ID;joinForeignKey:account_id;References:ID;joinReferences:group_id"`
	Permissions []Permission `json:"user_permissions" gorm:"many2many:account.account_permission;foreignKey:ID;joinForeignKey:account_id;References:ID;joinReferences:permission_id"`
}

func (a *Account) TableName() string {
	return "account.account"
}

// String renders the human-readable label used in admin headers and logs.
func (a Account) String() string {
	return a.Username
}

// HasPerm reports whether the account holds the named permission. The
// model is all-or-nothing: admins hold every permission, everyone else
// holds none, regardless of the name asked for.
func (a *Account) HasPerm(perm string) bool {
	return a.IsAdmin
}

// HasModulePerms always grants module access. Module-level gating is
// disabled; see DESIGN.md.
func (a *Account) HasModulePerms(module string) bool {
	return true
}

type Group struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name string    `json:"name" gorm:"uniqueIndex"`
}

func (g *Group) TableName() string {
	return "account.group"
}

type Permission struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Codename string    `json:"codename" gorm:"uniqueIndex"`
	Name     string    `json:"name"`
}

func (p *Permission) TableName() string {
	return "account.permission"
}

type AuthKey struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	AccountID uuid.UUID `json:"account_id" gorm:"type:uuid"`
}

func (ak *AuthKey) TableName() string {
	return "account.auth_key"
}

func (ak *AuthKey) BeforeCreate(tx *gorm.DB) error {
	if ak.Key == "" {
		ak.Key = fmt.Sprintf("ahsk.%s", utils.GenerateRandomString(32))
	}
	return nil
}
