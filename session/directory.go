package session

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"sareeapi/models"
	"sareeapi/services"
)

// ResetPassword is the temporary password set by an admin reset.
const ResetPassword = "Welcome@1234"

func seedUsers() []models.User {
	return []models.User{
		{Username: "sbhatta4", Name: "Sandesh Bhatta", Role: models.RoleAdmin, Email: "sbhatta4@saree.ai", Phone: "+91 00000 00000"},
		{Username: "Admin", Name: "Administrator", Role: models.RoleAdmin, Email: "admin@saree.ai", Phone: "+91 98765 43210"},
		{Username: "Liza", Name: "Liza", Role: models.RoleModerator, Email: "liza@saree.ai", Phone: "+91 98765 43211"},
	}
}

// Directory holds the operator accounts shared by every session.
type Directory struct {
	mu    sync.RWMutex
	users []models.User
	cost  int
}

// NewDirectory seeds the built-in accounts, all with the given password.
func NewDirectory(defaultPassword string) (*Directory, error) {
	return newDirectory(defaultPassword, bcrypt.DefaultCost)
}

func newDirectory(defaultPassword string, cost int) (*Directory, error) {
	d := &Directory{cost: cost}
	for _, u := range seedUsers() {
		hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password of %s: %w", u.Username, err)
		}
		u.PasswordHash = hash
		d.users = append(d.users, u)
	}
	return d, nil
}

func (d *Directory) index(username string) int {
	return slices.IndexFunc(d.users, func(u models.User) bool { return u.Username == username })
}

// Authenticate checks the credentials; usernames are case sensitive.
func (d *Directory) Authenticate(username, password string) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i := d.index(username)
	if i < 0 {
		return models.User{}, ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword(d.users[i].PasswordHash, []byte(password)); err != nil {
		return models.User{}, ErrInvalidLogin
	}
	return d.users[i], nil
}

func (d *Directory) Get(username string) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i := d.index(username)
	if i < 0 {
		return models.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return d.users[i], nil
}

func (d *Directory) List() []models.UserInfoOut {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.UserInfoOut, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u.Info())
	}
	return out
}

// UpdateProfile changes contact details and, when given, the password. No old password is asked for.
func (d *Directory) UpdateProfile(username string, in models.ProfileIn) (models.User, error) {
	var hash []byte
	if in.NewPassword != "" || in.ConfirmPassword != "" {
		if in.NewPassword != in.ConfirmPassword {
			return models.User{}, services.NewValidationError(MsgPasswordMismatch)
		}
		if len(in.NewPassword) < 6 {
			return models.User{}, services.NewValidationError(MsgPasswordTooShort)
		}
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(in.NewPassword), d.cost); err != nil {
			return models.User{}, err
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.index(username)
	if i < 0 {
		return models.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	u := &d.users[i]
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if hash != nil {
		u.PasswordHash = hash
	}
	return *u, nil
}

func (d *Directory) ResetPassword(username string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(ResetPassword), d.cost)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.index(username)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	d.users[i].PasswordHash = hash
	return nil
}
