package user

import "time"

type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"size:50;uniqueIndex;not null;column:username" json:"username"`
	FirstName string     `gorm:"size:50;not null;column:first_name" json:"first_name"`
	LastName  string     `gorm:"size:50;not null;column:last_name" json:"last_name"`
	Email     string     `gorm:"size:254;index;column:email" json:"email"`
	Password  string     `gorm:"not null;column:password" json:"-"`
	IsActive  bool       `gorm:"not null;default:true;column:is_active" json:"is_active"`
	LastLogin *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "auth_user" }
