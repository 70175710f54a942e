package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID      `gorm:"column:organization_id;type:uuid;not null;index"`
	GuardID        *uuid.UUID     `gorm:"column:guard_id;type:uuid;index"`
	Username       string         `gorm:"column:username;type:varchar(150);not null"`
	Email          string         `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	Password       string         `gorm:"column:password;type:varchar(255);not null"`
	Role           string         `gorm:"column:role;type:varchar(20);not null;default:guard"`
	Phone          *string        `gorm:"column:phone;type:varchar(20)"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}
