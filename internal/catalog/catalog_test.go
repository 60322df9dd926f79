package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaultCatalog(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Greater(t, c.Len(), 0)

	squat, ok := c.Lookup("squat")
	require.True(t, ok)
	assert.Equal(t, "Back Squat", squat.Name)
	assert.False(t, squat.IsCustom)
}

func TestLoadSeedFile(t *testing.T) {
	path := writeSeed(t, `
exercises:
  - id: "Goblet-Squat"
    name: Goblet Squat
    muscle_group: legs
    equipment: kettlebell
  - id: swing
    name: Kettlebell Swing
    muscle_group: posterior
    equipment: kettlebell
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	// Ids are normalized at load time
	e, ok := c.Lookup("goblet-squat")
	require.True(t, ok)
	assert.Equal(t, "Goblet Squat", e.Name)

	_, ok = c.Lookup("Goblet-Squat")
	assert.False(t, ok, "lookups take normalized ids")

	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "goblet-squat", all[0].ID, "seed order preserved")
}

func TestLoadRejectsBadSeeds(t *testing.T) {
	t.Run("MissingID", func(t *testing.T) {
		path := writeSeed(t, "exercises:\n  - name: Nameless\n")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("MissingName", func(t *testing.T) {
		path := writeSeed(t, "exercises:\n  - id: x\n")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("DuplicateIDAfterNormalization", func(t *testing.T) {
		path := writeSeed(t, `
exercises:
  - id: squat
    name: Back Squat
  - id: " SQUAT "
    name: Other Squat
`)
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		path := writeSeed(t, "exercises: [")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
