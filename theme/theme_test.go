package theme

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"
)

func sampleTheme(t *testing.T, dir string) *Theme {
	t.Helper()

	icon := filepath.Join(dir, "icon.png")
	require.NoError(t, os.WriteFile(icon, []byte("png bytes"), 0o644))

	cfg := ini.Empty()
	cfg.Section("palette").Key("accent").SetValue("197121")

	return &Theme{
		Name:       "midnight",
		Descriptor: "set layout A\n",
		Config:     cfg,
		Resources:  map[string]string{"icons/icon.png": icon},
	}
}

func readEntry(t *testing.T, zr *zip.ReadCloser, name string) string {
	t.Helper()

	for _, f := range zr.File {
		if f.Name == name {
			r, err := f.Open()
			require.NoError(t, err)
			defer r.Close()

			data, err := io.ReadAll(r)
			require.NoError(t, err)

			return string(data)
		}
	}

	t.Fatalf("entry %q not in archive", name)

	return ""
}

func TestBuildArchiveContents(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "midnight.themezip")

	require.NoError(t, sampleTheme(t, dir).Build(output, BuildOptions{}))

	zr, err := zip.OpenReader(output)
	require.NoError(t, err)
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{
		"midnight.theme",
		"midnight/descriptor.txt",
		"midnight/icons/icon.png",
	}, names)

	assert.Equal(t, "set layout A\n", readEntry(t, zr, "midnight/descriptor.txt"))
	assert.Equal(t, "png bytes", readEntry(t, zr, "midnight/icons/icon.png"))
	assert.Contains(t, readEntry(t, zr, "midnight.theme"), "accent")
}

func TestBuildRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "midnight.themezip")
	require.NoError(t, os.WriteFile(output, []byte("old"), 0o644))

	th := sampleTheme(t, dir)

	err := th.Build(output, BuildOptions{})
	assert.ErrorIs(t, err, ErrExists)

	require.NoError(t, th.Build(output, BuildOptions{Overwrite: true}))

	zr, err := zip.OpenReader(output)
	require.NoError(t, err)
	zr.Close()
}

func TestBuildRefusesDirectory(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "midnight.themezip")
	require.NoError(t, os.Mkdir(output, 0o755))

	err := sampleTheme(t, dir).Build(output, BuildOptions{Overwrite: true})
	assert.ErrorIs(t, err, ErrExists)
}

func TestBuildRejectsBadName(t *testing.T) {
	dir := t.TempDir()

	th := sampleTheme(t, dir)
	th.Name = "mid/night"

	err := th.Build(filepath.Join(dir, "out.themezip"), BuildOptions{})
	assert.ErrorIs(t, err, ErrName)

	th.Name = ""
	err = th.Build(filepath.Join(dir, "out.themezip"), BuildOptions{})
	assert.ErrorIs(t, err, ErrName)
}

func TestBuildMissingResource(t *testing.T) {
	dir := t.TempDir()

	th := sampleTheme(t, dir)
	th.Resources["icons/gone.png"] = filepath.Join(dir, "gone.png")

	err := th.Build(filepath.Join(dir, "midnight.themezip"), BuildOptions{})
	assert.ErrorIs(t, err, ErrResource)
}
