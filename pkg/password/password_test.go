package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashWithCost("correct-horse", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "correct-horse", hash)
	assert.True(t, Verify("correct-horse", hash))
	assert.False(t, Verify("battery-staple", hash))
}

func TestHashRejectsEmpty(t *testing.T) {
	_, err := HashWithCost("", bcrypt.MinCost)
	assert.Error(t, err)
}

func TestVerifyMalformedHash(t *testing.T) {
	assert.False(t, Verify("anything", "not-a-bcrypt-hash"))
}

func TestDummyHashIsValid(t *testing.T) {
	cost, err := bcrypt.Cost([]byte(DummyHash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)

	BurnTime("anything")
}
