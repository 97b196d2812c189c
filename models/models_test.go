package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_PasswordHashNeverSerialized(t *testing.T) {
	u := User{ID: 1, Name: "Ann", Email: "a@x.io", PasswordHash: "$2a$10$secret", IsAdmin: true}
	raw, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "password")
	assert.Contains(t, string(raw), `"isAdmin":true`)
}

func TestUser_Ref(t *testing.T) {
	var nilUser *User
	assert.Nil(t, nilUser.Ref())
	assert.Nil(t, (&User{}).Ref())

	ref := (&User{ID: 7, Name: "Bo", Email: "b@x.io", IsAdmin: true}).Ref()
	require.NotNil(t, ref)
	assert.Equal(t, UserRef{ID: 7, Name: "Bo", Email: "b@x.io"}, *ref)
}

func TestSavingsGoal_Reached(t *testing.T) {
	assert.False(t, (&SavingsGoal{TargetAmount: 100, CurrentAmount: 99.99}).Reached())
	assert.True(t, (&SavingsGoal{TargetAmount: 100, CurrentAmount: 100}).Reached())
	assert.True(t, (&SavingsGoal{TargetAmount: 100, CurrentAmount: 150}).Reached())
	// zero target never counts as reached
	assert.False(t, (&SavingsGoal{TargetAmount: 0, CurrentAmount: 10}).Reached())
}
