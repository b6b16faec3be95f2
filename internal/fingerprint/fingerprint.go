// Package fingerprint computes the change-detection tokens attached to every
// render task. Two runs over identical inputs produce identical tokens, so
// the task runner can skip regeneration.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Inputs are the global build inputs every fingerprint folds in: the resolved
// configuration snapshot, a digest per template hook, the translatable
// context values for the default language, and the navigation links.
type Inputs struct {
	ConfigSnapshot string            `json:"config"`
	TemplateHooks  map[string]string `json:"template_hooks"`
	Lang           string            `json:"lang"`
	Title          string            `json:"title"`
	NavLinks       []string          `json:"nav_links"`
}

// Source returns the fingerprint variant attached to per-file render and copy
// tasks.
func (in Inputs) Source() (string, error) {
	return in.hash("source", nil, nil)
}

// Folder returns the fingerprint variant attached to index tasks. It
// additionally folds in the folder's file list and category key set, so
// adding or removing an example invalidates the index even though the files
// are not formal dependencies of the index template.
func (in Inputs) Folder(files, categories []string) (string, error) {
	return in.hash("folder", files, categories)
}

func (in Inputs) hash(scope string, files, categories []string) (string, error) {
	normalized := struct {
		Scope      string   `json:"scope"`
		Inputs     Inputs   `json:"inputs"`
		Files      []string `json:"files,omitempty"`
		Categories []string `json:"categories,omitempty"`
	}{
		Scope:      scope,
		Inputs:     in,
		Files:      sortedCopy(files),
		Categories: sortedCopy(categories),
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("marshal fingerprint inputs: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func sortedCopy(s []string) []string {
	if s == nil {
		return nil
	}
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

// DigestFiles returns a single digest over the contents of the given files,
// in the given order. Used for template hook dependencies.
func DigestFiles(paths ...string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("digest %s: %w", p, err)
		}
		fmt.Fprintf(h, "%s\x00%d\x00", p, len(data))
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
