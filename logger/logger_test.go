package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"dev", "DEV", "prod", ""} {
		log := New(env)
		assert.NotNil(t, log, env)
	}
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Infow("discarded", "key", "value")
	})
}
