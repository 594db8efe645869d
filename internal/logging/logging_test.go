package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "production", ""} {
		log, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, log, mode)
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	assert.NotPanics(t, func() {
		log.Debug("d", "k", 1)
		log.Info("i")
		log.Warn("w", "k", "v")
		log.Error("e")
		log.Named("sub").Info("named")
		log.Sync()
	})
}
