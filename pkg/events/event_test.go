package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	e := New(TokensPurchased, map[string]interface{}{"user_id": "u-1", "tokens": 50})

	assert.Equal(t, TokensPurchased, e.EventType())
	assert.Equal(t, 50, e.Payload()["tokens"])
	assert.False(t, e.Timestamp().IsZero())

	uid, ok := UserID(e)
	assert.True(t, ok)
	assert.Equal(t, "u-1", uid)
}

func TestUserID_Missing(t *testing.T) {
	_, ok := UserID(New(SceneReady, nil))
	assert.False(t, ok)
}
