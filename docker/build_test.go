package docker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRecipePrefersDockerfileOverAlternates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile.prod"), []byte("FROM scratch"), 0o644))

	recipe, err := FindRecipe(dir)
	require.NoError(t, err)
	assert.Equal(t, "Dockerfile", recipe)
}

func TestFindRecipeFallsBackToLowercaseVariant(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dockerfile"), []byte("FROM scratch"), 0o644))

	recipe, err := FindRecipe(dir)
	require.NoError(t, err)
	assert.Equal(t, "dockerfile", recipe)
}

func TestFindRecipeReturnsErrNoRecipeWhenAbsent(t *testing.T) {
	dir := t.TempDir()

	_, err := FindRecipe(dir)
	assert.ErrorIs(t, err, ErrNoRecipe)
}

func TestTrimNewline(t *testing.T) {
	assert.Equal(t, "hello", trimNewline("hello\n"))
	assert.Equal(t, "hello", trimNewline("hello\r\n"))
	assert.Equal(t, "", trimNewline("\n"))
	assert.Equal(t, "hello", trimNewline("hello"))
}
