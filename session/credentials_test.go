package session

import (
	"errors"
	"fmt"
	"testing"

	"sareeapi/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStoreFirstKeyIsActive(t *testing.T) {
	store := NewCredentialStore("", " first-key ")
	key, ok := store.Active()
	require.True(t, ok)
	assert.Equal(t, "first-key", key)

	require.NoError(t, store.Add("second-key"))
	key, _ = store.Active()
	assert.Equal(t, "first-key", key)

	require.NoError(t, store.Remove(0))
	key, _ = store.Active()
	assert.Equal(t, "second-key", key)

	require.NoError(t, store.Remove(0))
	_, ok = store.Active()
	assert.False(t, ok)

	assert.True(t, errors.Is(store.Remove(3), ErrCredentialNotFound))
}

func TestCredentialStoreLimit(t *testing.T) {
	store := NewCredentialStore()
	for i := 0; i < MaxCredentials; i++ {
		require.NoError(t, store.Add(fmt.Sprintf("key-%02d", i)))
	}
	err := store.Add("one-too-many")
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
	assert.Equal(t, MsgTooManyCredentials, err.Error())
	assert.Equal(t, MaxCredentials, store.Len())

	err = store.Add("   ")
	assert.Equal(t, MsgEmptyCredential, err.Error())
}

func TestCredentialListIsMasked(t *testing.T) {
	store := NewCredentialStore("AIzaSyExampleKey1234", "AIzaSyOtherKey5678")
	list := store.List()
	require.Len(t, list, 2)
	assert.True(t, list[0].Active)
	assert.False(t, list[1].Active)
	assert.Equal(t, 1, list[1].Index)
	assert.NotContains(t, list[0].Masked, "ExampleKey")
}
