package users

import (
	"time"
)

// User is an account that owns practice logs and pieces. LogCounter is the
// source of per-user sequential log numbers; it is only ever advanced with
// an atomic in-database increment.
type User struct {
	ID           uint      `gorm:"column:id;primaryKey"`
	Username     string    `gorm:"column:username;size:80;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;size:128;not null"`
	CreationDate time.Time `gorm:"column:creation_date;autoCreateTime"`
	Timezone     string    `gorm:"column:timezone;size:50;not null;default:UTC"`
	LogCounter   int       `gorm:"column:log_counter;not null;default:0"`
}

// TableName exposes the table backing user accounts.
func (User) TableName() string {
	return "users"
}
