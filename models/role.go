package models

import (
	"regexp"

	"github.com/go-playground/validator"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

var roleRule = regexp.MustCompile("^(admin|moderator)$")

func (l *Role) Scan(value interface{}) error {
	*l = Role(value.(string))
	return nil
}

func (l Role) Value() (string, error) {
	return string(l), nil
}

func (l Role) IsAdmin() bool {
	return l == RoleAdmin
}

func ValidateRole(fl validator.FieldLevel) bool {
	return roleRule.MatchString(fl.Field().String())
}

func ValidateRoleRaw(value string) bool {
	return roleRule.MatchString(value)
}
