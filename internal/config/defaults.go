package config

// applyDefaults fills unset fields with their documented defaults.
func applyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Examples"
	}
	if cfg.Site.DefaultLang == "" {
		cfg.Site.DefaultLang = "en"
	}
	if cfg.Site.OutputFolder == "" {
		cfg.Site.OutputFolder = "output"
	}
	if cfg.Site.CacheFolder == "" {
		cfg.Site.CacheFolder = "cache"
	}
	if cfg.Site.IndexFile == "" {
		cfg.Site.IndexFile = "index.html"
	}
	if cfg.Site.TemplatesFolder == "" {
		cfg.Site.TemplatesFolder = "templates"
	}
	if cfg.StateFile == "" {
		cfg.StateFile = ".exbuilder/state.db"
	}
	if cfg.Source != nil {
		if cfg.Source.Branch == "" {
			cfg.Source.Branch = "main"
		}
		if cfg.Source.Workspace == "" {
			cfg.Source.Workspace = ".exbuilder/workspace"
		}
	}
}
