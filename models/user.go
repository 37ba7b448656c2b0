package models

// User is an operator account of the directory. PasswordHash is a bcrypt digest.
type User struct {
	Username     string `json:"username"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PasswordHash []byte `json:"-"`
}

type UserInfoOut struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (u User) Info() UserInfoOut {
	return UserInfoOut{
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
		Email:    u.Email,
		Phone:    u.Phone,
	}
}
