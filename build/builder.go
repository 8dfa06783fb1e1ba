// Package build implements the preprocessing engine: it walks parsed
// descriptor content, recursively resolves includes, drives the shared
// script engine, merges imported configuration, and resolves resource
// globs, accumulating the three build artifacts.
package build

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/themeforge/themeforge/descriptor"
	"github.com/themeforge/themeforge/log"
	"github.com/themeforge/themeforge/pkg"
	"github.com/themeforge/themeforge/script"
)

// DefaultMaxIncludeDepth bounds include nesting so a self-referential
// include chain fails instead of recursing without bound.
const DefaultMaxIncludeDepth = 64

// Result holds the artifacts of one completed build.
type Result struct {
	// Descriptor is the fully expanded descriptor text.
	Descriptor string

	// Config is the merged configuration table.
	Config *ini.File

	// Resources maps archive destination (slash path) to source OS path.
	// The first registration of a destination wins.
	Resources map[string]string

	// Warnings records the advisory events emitted during the build.
	Warnings []string
}

// Option configures a Builder.
type Option func(*Builder)

// WithMaxDepth overrides [DefaultMaxIncludeDepth].
func WithMaxDepth(n int) Option {
	return func(b *Builder) { b.maxDepth = n }
}

// WithRoot restricts includes and resource matches to dir: anything
// resolving outside it fails the build. Without this option paths are
// unrestricted.
func WithRoot(dir string) Option {
	return func(b *Builder) { b.root = dir }
}

// WithLogger routes the builder's diagnostics to l instead of the default
// logger.
func WithLogger(l log.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// Builder owns all build-scoped mutable state. It is single-use: one
// Builder serves exactly one Run.
type Builder struct {
	engine    *script.Engine
	parts     []string
	config    *ini.File
	resources map[string]string
	warnings  []string
	logger    log.Logger
	root      string
	maxDepth  int

	// suppressNewline drops the newline terminating an include or resource
	// directive line, so directives leave no trace in the expanded output.
	suppressNewline bool
}

// New creates a Builder around the given engine. The engine's globals
// (including any caller-seeded values) persist across every file the build
// touches.
func New(engine *script.Engine, opts ...Option) *Builder {
	b := &Builder{
		engine:    engine,
		config:    ini.Empty(),
		resources: map[string]string{},
		logger:    log.Default(),
		maxDepth:  DefaultMaxIncludeDepth,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Run expands the descriptor at the given path and returns the accumulated
// artifacts. Any syntax, validation, I/O, or evaluation error aborts the
// whole build with no partial result.
func (b *Builder) Run(input string) (*Result, error) {
	if err := b.processFile(input, 0); err != nil {
		return nil, err
	}

	return &Result{
		Descriptor: strings.Join(b.parts, ""),
		Config:     b.config,
		Resources:  b.resources,
		Warnings:   b.warnings,
	}, nil
}

// processFile parses one descriptor file and feeds its content in order.
// Included descriptors recurse depth-first, so an include is fully expanded
// before the including file's remaining content.
func (b *Builder) processFile(input string, depth int) error {
	if depth > b.maxDepth {
		return ErrMaxIncludeDepth.With(
			slog.String("path", input),
			slog.Int("depth", depth),
		)
	}
	if err := b.checkRoot(input, ErrIncludeOutsideRoot); err != nil {
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return ErrRead.Wrap(err).With(slog.String("path", input))
	}

	contents, err := descriptor.Parse(string(data))
	if err != nil {
		return atPath(err, input)
	}

	b.logger.Debug("expanding descriptor",
		slog.String("path", input),
		slog.Int("items", len(contents)),
	)

	for _, item := range contents {
		if err := b.feed(item, input, depth); err != nil {
			return err
		}
	}

	return nil
}

// feed applies one content item against the build state.
func (b *Builder) feed(item descriptor.Content, source string, depth int) error {
	suppress := b.suppressNewline
	b.suppressNewline = false

	switch item.Kind {
	case descriptor.KindNewline:
		if !suppress {
			b.parts = append(b.parts, "\n")
		}

	case descriptor.KindCode, descriptor.KindComment:
		b.parts = append(b.parts, item.Text)

	case descriptor.KindExpression:
		return b.feedExpression(item, source)

	case descriptor.KindDirective:
		return b.feedDirective(item, source, depth)
	}

	return nil
}

// feedExpression evaluates an expression span, appends its serialized
// result, and resolves any resources the evaluation staged.
func (b *Builder) feedExpression(item descriptor.Content, source string) error {
	value, err := b.engine.Eval(item.Text, locate(source, item.Pos))
	if err != nil {
		return err
	}

	text, err := serializeValue(value, targetDescriptor)
	if err != nil {
		return pkg.WrapError(err).With(
			slog.String("at", locate(source, item.Pos)),
			slog.String("expression", item.Text),
		)
	}

	b.parts = append(b.parts, text)

	return b.drainResources(filepath.Dir(source))
}

func (b *Builder) feedDirective(item descriptor.Content, source string, depth int) error {
	dir := item.Directive

	switch dir.Kind {
	case descriptor.DirectiveInclude:
		if err := b.include(dir.Include, source, depth); err != nil {
			return err
		}

		// Set only after the include expands: recursion resets the flag,
		// and the suppressed newline is the one in the including file.
		b.suppressNewline = true

		return nil

	case descriptor.DirectiveResource:
		b.suppressNewline = true

		srcDir := filepath.Dir(source)
		if b.root != "" {
			target := filepath.Join(srcDir, filepath.FromSlash(dir.Pattern))
			if err := b.checkRoot(target, ErrResourceOutsideRoot); err != nil {
				return err
			}
		}

		b.addResources(dir.Pattern, dir.Dest, srcDir)

		return nil

	default:
		// Unknown directives re-emit as inert comment lines so consumers
		// with a richer directive vocabulary still see them.
		b.logger.Debug("passing through unknown directive",
			slog.String("name", dir.Name),
			slog.String("at", locate(source, item.Pos)),
		)
		b.parts = append(b.parts, "; "+item.Text)

		return nil
	}
}

// include dispatches on the target's extension: structured configuration is
// imported, scripts run in the shared engine, and anything else expands
// recursively as descriptor content.
func (b *Builder) include(relpath, source string, depth int) error {
	target := filepath.Join(filepath.Dir(source), filepath.FromSlash(relpath))

	switch includeKind(relpath) {
	case includeINI:
		if err := b.checkRoot(target, ErrIncludeOutsideRoot); err != nil {
			return err
		}

		return b.importINI(target)

	case includeYAML:
		if err := b.checkRoot(target, ErrIncludeOutsideRoot); err != nil {
			return err
		}

		return b.importYAML(target)

	case includeScript:
		if err := b.checkRoot(target, ErrIncludeOutsideRoot); err != nil {
			return err
		}

		return b.runScript(target)

	default:
		return b.processFile(target, depth+1)
	}
}

// runScript executes a script file in the shared engine, then resolves any
// resources it staged against the script's own directory.
func (b *Builder) runScript(target string) error {
	data, err := os.ReadFile(target)
	if err != nil {
		return ErrRead.Wrap(err).With(slog.String("path", target))
	}

	b.logger.Debug("running script", slog.String("path", target))

	if err := b.engine.RunScript(string(data), target); err != nil {
		return err
	}

	return b.drainResources(filepath.Dir(target))
}

// addResources resolves a glob against dir and registers each match under
// dest + base name. The first registration of a destination wins; later
// collisions, enumeration problems, and unnameable matches warn and are
// skipped.
func (b *Builder) addResources(pattern, dest, dir string) {
	abs := filepath.Join(dir, filepath.FromSlash(pattern))

	b.logger.Debug("resolving resource glob",
		slog.String("pattern", pattern),
		slog.String("dir", dir),
	)

	matches, err := filepath.Glob(abs)
	if err != nil {
		b.warn("failed to enumerate resource glob",
			slog.String("pattern", abs),
			slog.Any("error", err),
		)

		return
	}

	for _, match := range matches {
		base := filepath.Base(match)
		if base == "." || base == string(filepath.Separator) {
			b.warn("resource match has no file name",
				slog.String("path", match),
			)

			continue
		}

		key := path.Join(dest, base)
		if prev, ok := b.resources[key]; ok {
			b.warn("resource overwrites previous registration",
				slog.String("dest", key),
				slog.String("kept", prev),
				slog.String("dropped", match),
			)

			continue
		}

		b.resources[key] = match
	}
}

// drainResources registers everything expression code staged since the
// last drain, erroring under root restriction when a match escapes.
func (b *Builder) drainResources(dir string) error {
	for _, staged := range b.engine.DrainResources() {
		if b.root != "" {
			if err := b.checkRoot(filepath.Join(dir, filepath.FromSlash(staged.Pattern)), ErrResourceOutsideRoot); err != nil {
				return err
			}
		}

		b.addResources(staged.Pattern, staged.Dest, dir)
	}

	return nil
}

// warn logs an advisory event and records it for the caller.
func (b *Builder) warn(msg string, attrs ...slog.Attr) {
	b.logger.Warn(msg, attrs...)

	text := msg
	for _, a := range attrs {
		text += fmt.Sprintf(" %s=%v", a.Key, a.Value.Any())
	}

	b.warnings = append(b.warnings, text)
}

// checkRoot enforces opt-in root containment on a path about to be used.
func (b *Builder) checkRoot(target string, outside *pkg.Error) error {
	if b.root == "" {
		return nil
	}

	absRoot, err := filepath.Abs(b.root)
	if err != nil {
		return ErrRead.Wrap(err).With(slog.String("path", b.root))
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return ErrRead.Wrap(err).With(slog.String("path", target))
	}

	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return outside.With(
			slog.String("path", target),
			slog.String("root", b.root),
		)
	}

	return nil
}

type includeType int

const (
	includeDescriptor includeType = iota
	includeINI
	includeYAML
	includeScript
)

// includeKind selects handling by extension, case-insensitively.
func includeKind(relpath string) includeType {
	switch strings.ToLower(path.Ext(relpath)) {
	case ".ini", ".cfg", ".conf", ".theme":
		return includeINI
	case ".yaml", ".yml":
		return includeYAML
	case ".expr":
		return includeScript
	}

	return includeDescriptor
}

// locate renders a source location for evaluation errors.
func locate(source string, pos descriptor.Position) string {
	return fmt.Sprintf("%s:%d:%d", source, pos.Line, pos.Column)
}

// atPath stamps a parse error with the file it came from.
func atPath(err error, input string) error {
	var perr *descriptor.ParseError
	if errors.As(err, &perr) {
		perr.Path = input
	}

	return err
}
