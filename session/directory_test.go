package session

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"sareeapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDirectory(t *testing.T) *Directory {
	d, err := newDirectory("Seed@123", bcrypt.MinCost)
	require.NoError(t, err)
	return d
}

func TestDirectorySeedsUsers(t *testing.T) {
	d := testDirectory(t)
	users := d.List()
	require.Len(t, users, 3)
	assert.Equal(t, "sbhatta4", users[0].Username)
	assert.Equal(t, models.RoleAdmin, users[1].Role)
	assert.Equal(t, models.RoleModerator, users[2].Role)
}

func TestAuthenticate(t *testing.T) {
	d := testDirectory(t)

	u, err := d.Authenticate("Liza", "Seed@123")
	require.NoError(t, err)
	assert.Equal(t, "liza@saree.ai", u.Email)

	_, err = d.Authenticate("Liza", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidLogin))
	_, err = d.Authenticate("liza", "Seed@123")
	assert.True(t, errors.Is(err, ErrInvalidLogin))
}

func TestUpdateProfile(t *testing.T) {
	d := testDirectory(t)
	name := "Liza M"

	u, err := d.UpdateProfile("Liza", models.ProfileIn{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Liza M", u.Name)

	_, err = d.UpdateProfile("Liza", models.ProfileIn{NewPassword: "abcdef", ConfirmPassword: "abcdeg"})
	require.Error(t, err)
	assert.Equal(t, MsgPasswordMismatch, err.Error())

	_, err = d.UpdateProfile("Liza", models.ProfileIn{NewPassword: "abc", ConfirmPassword: "abc"})
	require.Error(t, err)
	assert.Equal(t, MsgPasswordTooShort, err.Error())

	_, err = d.UpdateProfile("Liza", models.ProfileIn{NewPassword: "abcdef", ConfirmPassword: "abcdef"})
	require.NoError(t, err)
	_, err = d.Authenticate("Liza", "abcdef")
	assert.NoError(t, err)

	_, err = d.UpdateProfile("ghost", models.ProfileIn{Name: &name})
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestResetPassword(t *testing.T) {
	d := testDirectory(t)
	require.NoError(t, d.ResetPassword("Admin"))

	_, err := d.Authenticate("Admin", ResetPassword)
	assert.NoError(t, err)
	_, err = d.Authenticate("Admin", "Seed@123")
	assert.Error(t, err)

	assert.True(t, errors.Is(d.ResetPassword("ghost"), ErrUserNotFound))
}
