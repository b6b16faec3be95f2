package commands

import (
	"fmt"
	"os"
)

// InitCmd writes a starter configuration file.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

const starterConfig = `site:
  title: Examples
  default_lang: en
  output_folder: output
  cache_folder: cache
  index_file: index.html
  strip_indexes: true
  templates_folder: templates

# Uncomment to pull examples from a git repository instead of local folders.
# source:
#   url: https://example.org/project/project.git
#   branch: main

folders:
  - source: samples/python
    dest: examples/python
  - source: samples/matlab
    dest: examples/matlab
  - source: samples/jupyter
    dest: examples/jupyter
`

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if _, err := os.Stat(root.Config); err == nil && !i.Force {
		return fmt.Errorf("configuration file %s already exists (use --force to overwrite)", root.Config)
	}
	if err := os.WriteFile(root.Config, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("write configuration file: %w", err)
	}
	fmt.Printf("Wrote %s\n", root.Config)
	return nil
}
