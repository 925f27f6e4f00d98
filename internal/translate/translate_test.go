package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromPlainKey(t *testing.T) {
	assert.Equal(t, "registration full", From("registration full"))
}

func TestFromFormatsArgs(t *testing.T) {
	assert.Equal(t, "thread 3 terminate", From("thread %d %v", 3, "terminate"))
}
