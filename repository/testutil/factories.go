package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bizdash/datagen"
	"bizdash/models"
)

// GenerateTestSnapshot builds a snapshot with the default generator options.
// Tests pin the seed so fixtures stay stable.
func GenerateTestSnapshot(t *testing.T, rows, months int, seed int64) *models.Snapshot {
	t.Helper()

	gen, err := datagen.New(datagen.DefaultOptions())
	require.NoError(t, err)

	snap, err := gen.Generate(rows, months, seed)
	require.NoError(t, err)
	return snap
}
