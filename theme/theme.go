// Package theme packages the artifacts of a build into a distributable
// theme archive: a deflate zip holding the configuration table, the
// expanded descriptor, and every manifest resource.
package theme

import (
	"archive/zip"
	"io"
	"log/slog"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/themeforge/themeforge/log"
	"github.com/themeforge/themeforge/pkg"
)

// Extension is the archive extension the host application looks for.
const Extension = ".themezip"

var (
	// ErrName is returned for an empty theme name or one containing path
	// separators.
	ErrName = pkg.NewError("invalid theme name")

	// ErrExists is returned when the output path exists and overwriting
	// was not requested, or is a directory.
	ErrExists = pkg.NewError("output path already exists")

	// ErrWrite is returned when the archive cannot be written.
	ErrWrite = pkg.NewError("write theme archive")

	// ErrResource is returned when a manifest resource cannot be copied
	// into the archive.
	ErrResource = pkg.NewError("copy theme resource")
)

// Theme is a packaged-ready theme: a name plus the three build artifacts.
type Theme struct {
	// Name titles the archive entries; by convention it matches the output
	// file's stem.
	Name string

	// Descriptor is the fully expanded descriptor text.
	Descriptor string

	// Config is the merged configuration table.
	Config *ini.File

	// Resources maps archive-relative destinations (slash paths) to source
	// OS paths.
	Resources map[string]string
}

// BuildOptions controls archive creation.
type BuildOptions struct {
	// Overwrite permits replacing an existing output file. Directories are
	// never replaced.
	Overwrite bool

	// Logger receives the advisory naming warnings; the default logger is
	// used when unset.
	Logger *log.Logger
}

// Build writes the theme archive to the given path. The archive contains
// `<name>.theme` (the configuration table in INI form),
// `<name>/descriptor.txt` (the expanded descriptor), and one entry per
// manifest resource under `<name>/`.
func (t *Theme) Build(output string, opts BuildOptions) error {
	logger := log.Default()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	if t.Name == "" || strings.ContainsAny(t.Name, `/\`) {
		return ErrName.With(slog.String("name", t.Name))
	}

	if info, err := os.Stat(output); err == nil {
		if info.IsDir() || !opts.Overwrite {
			return ErrExists.With(slog.String("path", output))
		}
	}

	base := filepath.Base(output)
	ext := filepath.Ext(base)
	if stem := strings.TrimSuffix(base, ext); stem != t.Name {
		logger.Warn("output file name differs from theme name; the host may not load the theme correctly",
			slog.String("name", t.Name),
			slog.String("output", stem),
		)
	}
	if !strings.EqualFold(ext, Extension) {
		logger.Warn("output file extension is not "+Extension+"; the host may not recognize the theme",
			slog.String("extension", ext),
		)
	}

	f, err := os.Create(output)
	if err != nil {
		return ErrWrite.Wrap(err).With(slog.String("path", output))
	}
	defer f.Close()

	if err := t.writeArchive(f); err != nil {
		return err
	}

	return nil
}

func (t *Theme) writeArchive(w io.Writer) error {
	zw := zip.NewWriter(w)

	config, err := zw.Create(t.Name + ".theme")
	if err != nil {
		return ErrWrite.Wrap(err)
	}
	if t.Config != nil {
		if _, err := t.Config.WriteTo(config); err != nil {
			return ErrWrite.Wrap(err)
		}
	}

	desc, err := zw.Create(t.Name + "/descriptor.txt")
	if err != nil {
		return ErrWrite.Wrap(err)
	}
	if _, err := io.WriteString(desc, t.Descriptor); err != nil {
		return ErrWrite.Wrap(err)
	}

	// Deterministic entry order for reproducible archives.
	for _, dest := range slices.Sorted(maps.Keys(t.Resources)) {
		if err := t.writeResource(zw, dest, t.Resources[dest]); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

func (t *Theme) writeResource(zw *zip.Writer, dest, source string) error {
	src, err := os.Open(source)
	if err != nil {
		return ErrResource.Wrap(err).With(slog.String("source", source))
	}
	defer src.Close()

	entry, err := zw.Create(path.Join(t.Name, dest))
	if err != nil {
		return ErrWrite.Wrap(err).With(slog.String("dest", dest))
	}

	if _, err := io.Copy(entry, src); err != nil {
		return ErrResource.Wrap(err).With(
			slog.String("source", source),
			slog.String("dest", dest),
		)
	}

	return nil
}
