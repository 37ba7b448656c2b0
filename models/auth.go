package models

import "time"

type JsonModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LoginIn struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginOut struct {
	AccessToken string      `json:"token"`
	ExpiresAt   int64       `json:"expires_at"`
	User        UserInfoOut `json:"user"`
}

type ProfileIn struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Phone           *string `json:"phone" validate:"omitempty,max=30"`
	NewPassword     string  `json:"new_password"`
	ConfirmPassword string  `json:"confirm_password"`
}
