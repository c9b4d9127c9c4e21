package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options.
func GetDefaultConfigTemplate() string {
	return `# ldesign-changelog configuration
# Searched at .changelog/config.yml (project) and the user config directory
# (~/.config/ldesign-changelog/config.yml on Linux). Every key can be
# overridden with a CHANGELOG_* environment variable, e.g.
# CHANGELOG_STRATEGY=by-package.

# Import settings
format: auto                     # Input dialect: auto | keep-a-changelog | conventional-changelog | plain-markdown | json
date_format: YYYY-MM-DD          # Date layout for rendered headings (YYYY, MM, DD tokens)
version_prefix: ""               # Prefix prepended to versions when rendering (e.g. "v")

# Output settings
output_format: markdown          # markdown | json
plain: false                     # Disable colors and the progress spinner

# Merge settings
strategy: by-date                # by-date | by-version | by-package
deduplicate: true                # Drop duplicate commits while merging
deduplicate_key: both            # hash | message | both
preserve_package_prefix: false   # Prefix commit scopes with their package name
package_names: []                # Package name per merge source, in argument order
max_parallel: 4                  # Concurrent source reads during merge (1-32)

# Link settings
repo_url: ""                     # Repository URL for commit/compare links; "auto" detects the git remote

# Watch settings
watch_debounce: 300ms            # Quiet period before re-merging after a source change
`
}

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"format":         "auto",
		"output_format":  "markdown",
		"date_format":    "YYYY-MM-DD",
		"version_prefix": "",
		// strategy: by-date interleaves all sources newest-first, which is
		// what a monorepo-wide changelog usually wants. by-version and
		// by-package keep source encounter order within groups.
		"strategy":        "by-date",
		"deduplicate":     true,
		"deduplicate_key": "both",
		// preserve_package_prefix: off by default so single-repo merges
		// don't grow scopes like "core/parser" out of nowhere.
		"preserve_package_prefix": false,
		"package_names":           []string{},
		"max_parallel":            4,
		// repo_url: empty disables link building entirely. "auto" asks
		// the local git remote; an explicit URL skips detection.
		"repo_url": "",
		"plain":    false,
		// watch_debounce: editors fire several write events per save, so
		// the watcher waits for a quiet period before re-merging.
		"watch_debounce": "300ms",
	}
}
