package build

import (
	"github.com/themeforge/themeforge/pkg"
)

var (
	// ErrRead is returned when a descriptor, configuration, or script file
	// cannot be read.
	ErrRead = pkg.NewError("read file")

	// ErrConfig is returned when an included configuration file cannot be
	// loaded or decoded.
	ErrConfig = pkg.NewError("import configuration")

	// ErrUnsupportedValue is returned when an expression evaluates to a
	// value kind that has no textual form.
	ErrUnsupportedValue = pkg.NewError("unsupported expression result")

	// ErrMaxIncludeDepth is returned when include nesting exceeds the
	// configured cap.
	ErrMaxIncludeDepth = pkg.NewError("include nesting too deep")

	// ErrIncludeOutsideRoot is returned under root restriction when an
	// include target escapes the build root.
	ErrIncludeOutsideRoot = pkg.NewError("include outside root folder")

	// ErrResourceOutsideRoot is returned under root restriction when a
	// resource match escapes the build root.
	ErrResourceOutsideRoot = pkg.NewError("resource outside root folder")
)
