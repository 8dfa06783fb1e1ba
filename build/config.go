package build

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"gopkg.in/ini.v1"

	"github.com/themeforge/themeforge/descriptor"
	"github.com/themeforge/themeforge/pkg"
)

// iniLoadOptions disables inline-comment stripping: configuration values
// embed `#{ ... }` spans, and ini would otherwise truncate them at the `#`.
var iniLoadOptions = ini.LoadOptions{
	IgnoreInlineComment: true,
}

// importINI merges an INI-style configuration file into the build's table,
// expanding embedded expressions in every value. Later imports of the same
// section/key overwrite.
func (b *Builder) importINI(target string) error {
	f, err := ini.LoadSources(iniLoadOptions, target)
	if err != nil {
		return ErrConfig.Wrap(err).With(slog.String("path", target))
	}

	b.logger.Debug("importing configuration",
		slog.String("path", target),
		slog.Int("sections", len(f.Sections())),
	)

	for _, section := range f.Sections() {
		for _, key := range section.Keys() {
			expanded, err := b.expandValue(key.Value(), target)
			if err != nil {
				return err
			}

			b.config.Section(section.Name()).Key(key.Name()).SetValue(expanded)
		}
	}

	return nil
}

// importYAML merges a YAML configuration file decoded as
// section → key → scalar. Nested mappings or sequences have no INI
// equivalent and fail the import.
func (b *Builder) importYAML(target string) error {
	data, err := os.ReadFile(target)
	if err != nil {
		return ErrRead.Wrap(err).With(slog.String("path", target))
	}

	var sections map[string]map[string]any
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return ErrConfig.Wrap(err).With(slog.String("path", target))
	}

	b.logger.Debug("importing configuration",
		slog.String("path", target),
		slog.Int("sections", len(sections)),
	)

	for name, keys := range sections {
		for key, raw := range keys {
			value, err := scalarText(raw)
			if err != nil {
				return ErrConfig.Wrap(err).With(
					slog.String("path", target),
					slog.String("section", name),
					slog.String("key", key),
				)
			}

			expanded, err := b.expandValue(value, target)
			if err != nil {
				return err
			}

			b.config.Section(name).Key(key).SetValue(expanded)
		}
	}

	return nil
}

// expandValue evaluates the `#{ ... }` spans embedded in one configuration
// value and splices the results back in place. Multi-line results re-indent
// their continuation lines to the expression's original column so aligned
// multi-line values stay aligned.
func (b *Builder) expandValue(value, source string) (string, error) {
	frags, err := descriptor.ParseValue(value)
	if err != nil {
		return "", atPath(err, source)
	}

	var out strings.Builder

	for _, frag := range frags {
		if !frag.Expr {
			out.WriteString(frag.Text)

			continue
		}

		result, err := b.engine.Eval(frag.Text, locate(source, frag.Pos))
		if err != nil {
			return "", err
		}

		text, err := serializeValue(result, targetConfig)
		if err != nil {
			return "", pkg.WrapError(err).With(
				slog.String("at", locate(source, frag.Pos)),
				slog.String("expression", frag.Text),
			)
		}

		out.WriteString(indentContinuations(text, frag.Pos.Column))

		if err := b.drainResources(filepath.Dir(source)); err != nil {
			return "", err
		}
	}

	return out.String(), nil
}

// indentContinuations pads every line after the first so it starts at the
// given 1-based column.
func indentContinuations(text string, column int) string {
	if !strings.Contains(text, "\n") {
		return text
	}

	pad := strings.Repeat(" ", max(column-1, 0))

	return strings.ReplaceAll(text, "\n", "\n"+pad)
}

// scalarText renders a decoded YAML scalar the way it reads in the file.
func scalarText(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	}

	return "", fmt.Errorf("value is not a scalar (%T)", v)
}
