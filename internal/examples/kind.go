// Package examples discovers example source files and groups them into
// categories for listing and index generation.
package examples

import (
	"fmt"
	"strings"
)

// Kind is the closed set of example source kinds. The kind is inferred once,
// from the destination folder name, when a folder is discovered.
type Kind string

const (
	// KindScript covers general-purpose script examples (Python).
	KindScript Kind = "python"
	// KindNotebook covers structured notebook documents (Jupyter).
	KindNotebook Kind = "jupyter"
	// KindDialect covers the numeric-computing dialect (Matlab).
	KindDialect Kind = "matlab"
)

func (k Kind) String() string { return string(k) }

// IndexTemplate returns the template name rendering this kind's index page.
func (k Kind) IndexTemplate() string { return fmt.Sprintf("%s-example-index.tmpl", k) }

// ListingTemplate is the template rendering a single example listing page.
// All kinds share it.
const ListingTemplate = "examples.tmpl"

// KindFromDest infers the example kind from a destination folder name.
func KindFromDest(dest string) (Kind, error) {
	switch {
	case strings.Contains(dest, "python"):
		return KindScript, nil
	case strings.Contains(dest, "jupyter"):
		return KindNotebook, nil
	case strings.Contains(dest, "matlab"):
		return KindDialect, nil
	}
	return "", fmt.Errorf("cannot infer example kind from destination folder %q", dest)
}
