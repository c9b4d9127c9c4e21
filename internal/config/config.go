// Package config provides hierarchical configuration management for the
// changelog CLI using koanf. Configuration is loaded with priority:
// environment variables > project config (.changelog/config.yml) > user
// config (~/.config/ldesign-changelog/config.yml) > defaults. A legacy
// project-level .changelogrc.json is still read, with a migration warning.
package config

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration holds the changelog tool settings.
type Configuration struct {
	// Format is the default input dialect for import when --format is not
	// passed. "auto" detects the dialect from content.
	Format string `koanf:"format" validate:"omitempty,oneof=auto keep-a-changelog conventional-changelog plain-markdown json"`

	// OutputFormat selects between markdown and JSON output.
	OutputFormat string `koanf:"output_format" validate:"omitempty,oneof=markdown json"`

	// DateFormat is the date layout for rendered version headings,
	// written with YYYY/MM/DD tokens (e.g. "YYYY-MM-DD", "DD/MM/YYYY").
	DateFormat string `koanf:"date_format"`

	// VersionPrefix is prepended to version numbers when rendering (e.g. "v").
	VersionPrefix string `koanf:"version_prefix"`

	// Strategy orders merged output: by-date, by-version or by-package.
	Strategy string `koanf:"strategy" validate:"omitempty,oneof=by-date by-version by-package"`

	// Deduplicate drops duplicate commits while merging.
	Deduplicate bool `koanf:"deduplicate"`

	// DeduplicateKey selects what makes two commits duplicates:
	// hash, message or both.
	DeduplicateKey string `koanf:"deduplicate_key" validate:"omitempty,oneof=hash message both"`

	// PreservePackagePrefix prefixes commit scopes with their source
	// package name while merging.
	PreservePackagePrefix bool `koanf:"preserve_package_prefix"`

	// PackageNames assigns a package name to each merge source, in
	// argument order. Can be set via CHANGELOG_PACKAGE_NAMES=core,store.
	PackageNames []string `koanf:"package_names"`

	// MaxParallel caps concurrent source reads during merge.
	MaxParallel int `koanf:"max_parallel" validate:"omitempty,min=1,max=32"`

	// RepoURL is the repository URL used for commit and compare links.
	// "auto" detects it from the local git remote; empty disables links.
	RepoURL string `koanf:"repo_url"`

	// Plain disables colors and the progress spinner.
	Plain bool `koanf:"plain"`

	// WatchDebounce is the quiet period before a watched merge re-runs,
	// as a duration string (e.g. "300ms", "2s").
	WatchDebounce string `koanf:"watch_debounce"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .changelog/config.yml)
	ProjectConfigPath string
	// WarningWriter receives migration warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses migration warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
//
// Config paths:
//   - User config: ~/.config/ldesign-changelog/config.yml (XDG compliant)
//   - Project config: .changelog/config.yml
//   - Legacy project config: .changelogrc.json (deprecated, triggers warning)
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k, err := loadAll(opts)
	if err != nil {
		return nil, err
	}
	return finalizeConfig(k)
}

// Snapshot returns the effective configuration as a flat key map, after
// the full load chain. Used by the config show command.
func Snapshot(opts LoadOptions) (map[string]interface{}, error) {
	k, err := loadAll(opts)
	if err != nil {
		return nil, err
	}
	if _, err := finalizeConfig(k); err != nil {
		return nil, err
	}
	return k.Raw(), nil
}

// loadAll runs the full provider chain into a fresh koanf instance.
func loadAll(opts LoadOptions) (*koanf.Koanf, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return k, nil
}

// getWarningWriter returns the warning writer or defaults to stderr.
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values.
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config when present.
func loadUserConfig(k *koanf.Koanf) error {
	userPath, err := UserConfigPath()
	if err != nil {
		return nil // no resolvable home, user config simply doesn't apply
	}
	if !fileExists(userPath) {
		return nil
	}
	if err := loadYAMLConfig(k, userPath, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project-level config. YAML is preferred; a
// legacy .changelogrc.json left behind by earlier releases is still
// honored with a migration warning.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	projectYAMLPath := ProjectConfigPath()
	if customPath != "" {
		// The default path is optional, an explicitly named one is not.
		if !fileExists(customPath) {
			return fmt.Errorf("config file not found: %s: %w", customPath, fs.ErrNotExist)
		}
		projectYAMLPath = customPath
	}
	legacyPath := LegacyProjectConfigPath()

	projectYAMLExists := fileExists(projectYAMLPath)
	legacyExists := fileExists(legacyPath)

	if projectYAMLExists {
		if err := loadYAMLConfig(k, projectYAMLPath, "project"); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		warnLegacyExists(warningWriter, legacyPath, projectYAMLPath, legacyExists, skipWarnings)
	} else if legacyExists {
		if err := loadLegacyJSONConfig(k, legacyPath, warningWriter, skipWarnings); err != nil {
			return fmt.Errorf("loading legacy project config: %w", err)
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file.
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadLegacyJSONConfig loads a legacy JSON config and warns about migration.
func loadLegacyJSONConfig(k *koanf.Koanf, path string, warningWriter io.Writer, skipWarnings bool) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load legacy config %s: %w", path, err)
	}
	if !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", path)
		fmt.Fprintf(warningWriter, "  Run 'changelog config init' and move your settings to %s.\n\n", ProjectConfigPath())
	}
	return nil
}

// warnLegacyExists warns if a legacy JSON config exists alongside the YAML one.
func warnLegacyExists(warningWriter io.Writer, legacyPath, yamlPath string, legacyExists, skipWarnings bool) {
	if legacyExists && !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
		fmt.Fprintf(warningWriter, "  Delete the legacy file once its settings are migrated.\n\n")
	}
}

// loadEnvironmentConfig loads environment variable overrides.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider("CHANGELOG_", ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the loaded configuration.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: CHANGELOG_OUTPUT_FORMAT -> output_format
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "CHANGELOG_"))
}
