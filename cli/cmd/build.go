// Package cmd provides the build subcommand for compiling theme
// descriptors into packaged theme archives.
package cmd

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/themeforge/themeforge/build"
	"github.com/themeforge/themeforge/log"
	"github.com/themeforge/themeforge/pkg"
	"github.com/themeforge/themeforge/script"
	"github.com/themeforge/themeforge/theme"
)

// ErrOutputName is returned when no usable theme name can be derived from
// the output path.
var ErrOutputName = pkg.NewError("derive theme name from output path")

// Build compiles a theme descriptor into a packaged theme archive.
//
// The theme name is the stem of the output path: building into
// "dist/moss.themezip" produces a theme named "moss".
type Build struct {
	Input  string `arg:"" help:"Theme descriptor input file" type:"existingfile"`
	Output string `arg:"" help:"Theme archive output path"   type:"path"`

	Overwrite    bool              `help:"Overwrite an existing output file."                               short:"f"`
	RestrictRoot bool              `help:"Refuse includes and resources outside the descriptor directory."`
	Define       map[string]string `help:"Predefine global variables (name=value)."                         short:"D"`
}

// Run executes the build command.
func (b *Build) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	name := themeName(b.Output)
	if name == "" {
		return ErrOutputName.With(slog.String("output", b.Output))
	}

	engine := script.New()
	engine.Set("theme_name", name)

	for key, value := range b.Define {
		engine.Set(key, value)
	}

	opts := []build.Option{build.WithLogger(log.Default())}
	if b.RestrictRoot {
		opts = append(opts, build.WithRoot(filepath.Dir(b.Input)))
	}

	result, err := build.New(engine, opts...).Run(b.Input)
	if err != nil {
		return err
	}

	log.Info("descriptor compiled",
		slog.String("input", b.Input),
		slog.String("theme", name),
		slog.Int("resources", len(result.Resources)),
		slog.Int("warnings", len(result.Warnings)),
	)

	t := theme.Theme{
		Name:       name,
		Descriptor: result.Descriptor,
		Config:     result.Config,
		Resources:  result.Resources,
	}

	return t.Build(b.Output, theme.BuildOptions{Overwrite: b.Overwrite})
}

// themeName derives the theme name from the output path's stem.
func themeName(output string) string {
	base := filepath.Base(output)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	switch name {
	case "", ".", string(filepath.Separator):
		return ""
	}

	return name
}
