package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealer(t *testing.T) {
	s, err := newSealer("a-long-enough-secret")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		box, err := s.seal([]byte("bearer-token"))
		require.NoError(t, err)
		assert.NotContains(t, string(box), "bearer-token")

		plain, err := s.open(box)
		require.NoError(t, err)
		assert.Equal(t, "bearer-token", string(plain))
	})

	t.Run("fresh nonce per seal", func(t *testing.T) {
		a, err := s.seal([]byte("same"))
		require.NoError(t, err)
		b, err := s.seal([]byte("same"))
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("wrong secret", func(t *testing.T) {
		box, err := s.seal([]byte("bearer-token"))
		require.NoError(t, err)

		other, err := newSealer("another-secret")
		require.NoError(t, err)
		_, err = other.open(box)
		assert.ErrorIs(t, err, ErrSealBroken)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := s.open([]byte("short"))
		assert.ErrorIs(t, err, ErrSealBroken)
	})
}

func TestMarshalEntity(t *testing.T) {
	data, err := marshalEntity(map[string]string{"id": "abc"})
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, unmarshalEntity(data, &out))
	assert.Equal(t, "abc", out["id"])

	err = unmarshalEntity([]byte("{not json"), &out)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal entity")
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, []byte("session:xyz"), sessionKey("xyz"))
}
