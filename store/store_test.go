package store

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/config"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	paths := config.Paths{
		ConfigDir: t.TempDir(),
		DataDir:   t.TempDir(),
	}
	return New(paths, slog.Default())
}

func sampleRecord(slug string) *models.ProjectRecord {
	return &models.ProjectRecord{
		Name:        "Widgets",
		Slug:        slug,
		RepoURL:     "https://github.com/acme/widgets.git",
		Branch:      "main",
		NetworkMode: models.NetworkLocalOnly,
		Domain: models.DomainConfig{
			ContainerPort: 3000,
			HostPort:      40000,
		},
		Container: models.ContainerConfig{
			ImageName:      "dockyard/" + slug,
			ContainerName:  "dockyard-" + slug,
			DockerfilePath: "Dockerfile",
			EnvVars:        map[string]string{"FOO": "bar"},
		},
		Webhook: models.WebhookConfig{
			Secret: "deadbeef",
		},
		Enabled: true,
	}
}

func TestStoreSaveAndLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	original := sampleRecord("widgets")

	require.NoError(t, s.Save(original))

	loaded, err := s.Load("widgets")
	require.NoError(t, err)

	assert.Equal(t, original.Name, loaded.Name)
	assert.Equal(t, original.Slug, loaded.Slug)
	assert.Equal(t, original.RepoURL, loaded.RepoURL)
	assert.Equal(t, original.Container.EnvVars, loaded.Container.EnvVars)
	assert.Equal(t, original.Webhook.Secret, loaded.Webhook.Secret)
}

func TestStoreLoadMissingReturnsErrProjectNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.Load("does-not-exist")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestStoreListSlugsIsSortedAndComplete(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Save(sampleRecord("zeta")))
	require.NoError(t, s.Save(sampleRecord("alpha")))
	require.NoError(t, s.Save(sampleRecord("mu")))

	slugs, err := s.ListSlugs()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mu", "zeta"}, slugs)
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(sampleRecord("widgets")))

	require.NoError(t, s.Delete("widgets"))
	_, err := s.Load("widgets")
	assert.ErrorIs(t, err, ErrProjectNotFound)

	// deleting again must not error
	assert.NoError(t, s.Delete("widgets"))
}

func TestStoreLoadAllSkipsCorruptRecords(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(sampleRecord("good")))

	badDir := s.paths.ProjectDir("bad")
	require.NoError(t, os.MkdirAll(badDir, 0o755))
	require.NoError(t, os.WriteFile(s.paths.ProjectRecordPath("bad"), []byte("not valid toml {{{"), 0o644))

	records, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].Slug)
}
