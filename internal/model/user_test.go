package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{in: "a@x.com", want: "a@x.com"},
		{in: "  Ada@Example.COM ", want: "ada@example.com"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEmail(tt.in), tt.in)
	}
}

func TestUser_Public(t *testing.T) {
	t.Parallel()

	u := User{
		ID:             4,
		Email:          "a@x.com",
		HashedPassword: "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		FirstName:      "Ada",
		LastName:       "Lovelace",
		RoleID:         1,
		Role:           RoleTeacher,
		IsActive:       true,
	}

	raw, err := json.Marshal(u.Public())
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":4,"email":"a@x.com","first_name":"Ada","last_name":"Lovelace","role_id":1,"role":"teacher"}`, string(raw))
	assert.NotContains(t, string(raw), "argon2id")
}
