package model

import "time"

// User 用户身份（本服务只读，注册/登录由认证服务负责）
type User struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"type:varchar(30);not null"`
	Email     string    `json:"-" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(128);not null"`
	Bio       string    `json:"bio" gorm:"type:varchar(150)"`
	Avatar    string    `json:"avatar" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string { return "users" }
