package config

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/language"
)

// Validate checks the configuration for structural problems. A source or
// destination path appearing in more than one folder mapping fails the load.
func Validate(cfg *Config) error {
	err := validation.ValidateStruct(cfg,
		validation.Field(&cfg.Folders, validation.Required.Error("at least one folder mapping is required")),
		validation.Field(&cfg.Site, validation.By(func(any) error { return validateSite(&cfg.Site) })),
	)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Source != nil {
		if err := validation.ValidateStruct(cfg.Source,
			validation.Field(&cfg.Source.URL, validation.Required.Error("source.url is required when source is set")),
		); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	return validateFolders(cfg.Folders)
}

func validateSite(site *SiteConfig) error {
	if _, err := language.Parse(site.DefaultLang); err != nil {
		return validation.NewError("config.site.default_lang", fmt.Sprintf("invalid default_lang %q", site.DefaultLang))
	}
	return nil
}

func validateFolders(folders []FolderMapping) error {
	seen := make(map[string]struct{}, len(folders)*2)
	for _, fm := range folders {
		if fm.Source == "" || fm.Dest == "" {
			return fmt.Errorf("invalid configuration: folder mapping needs both source and dest (got %q -> %q)", fm.Source, fm.Dest)
		}
		for _, p := range []string{fm.Source, fm.Dest} {
			if _, dup := seen[p]; dup {
				return fmt.Errorf("invalid configuration: folder path %q appears in more than one mapping", p)
			}
			seen[p] = struct{}{}
		}
	}
	return nil
}
