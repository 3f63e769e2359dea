package tracer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuery(t *testing.T) {
	got := normalizeQuery("  select *\n  from users\twhere email = :email ")
	assert.Equal(t, "SELECT * FROM USERS WHERE EMAIL = ?", got)
}

func TestQueriesSimilar(t *testing.T) {
	tests := []struct {
		name string
		q1   string
		q2   string
		want bool
	}{
		{
			"identical",
			"SELECT * FROM users WHERE id = 1",
			"SELECT * FROM users WHERE id = 1",
			true,
		},
		{
			"placeholder styles normalize together",
			"SELECT * FROM users WHERE email = :email",
			"SELECT * FROM users WHERE email = %s",
			true,
		},
		{
			"same tables same statement kind",
			"SELECT id FROM orders WHERE status = 'new'",
			"SELECT total FROM orders WHERE id = $1",
			true,
		},
		{
			"different kinds but full table overlap",
			"SELECT * FROM accounts",
			"DELETE FROM accounts WHERE closed = true",
			true,
		},
		{
			"disjoint tables dissimilar",
			"SELECT * FROM users WHERE id = 1",
			"SELECT * FROM products WHERE id = 1",
			false,
		},
		{
			"whitespace differences ignored",
			"SELECT id,\n       name\nFROM users",
			"SELECT id, name FROM users",
			true,
		},
		{
			"empty query never matches",
			"",
			"SELECT * FROM users",
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QueriesSimilar(tt.q1, tt.q2))
			assert.Equal(t, tt.want, QueriesSimilar(tt.q2, tt.q1), "must be symmetric")
		})
	}
}

func TestQueriesSimilarPrefixFallback(t *testing.T) {
	// INSERT statements carry no FROM/JOIN tables, so similarity falls
	// back to prefix containment.
	q1 := "INSERT INTO users (name, email) VALUES (%s, %s)"
	q2 := "INSERT INTO users (name, email) VALUES (:name, :email)"
	assert.True(t, QueriesSimilar(q1, q2))
}
