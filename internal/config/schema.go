package config

import "sort"

// ValueType describes the expected type of a configuration value,
// used for help text in the config keys command.
type ValueType int

const (
	TypeBool ValueType = iota
	TypeInt
	TypeString
	TypeStringList
	TypeDuration
	TypeEnum
)

// String returns the string representation of ValueType.
func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeStringList:
		return "list"
	case TypeDuration:
		return "duration"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// KeySchema describes a known configuration key for help output.
type KeySchema struct {
	Path          string      // Key as written in config files
	Type          ValueType   // Expected value type
	AllowedValues []string    // Valid values for enum keys
	Description   string      // Human-readable description
	Default       interface{} // Default value
}

// KnownKeys is the registry of all configuration keys with their schemas.
var KnownKeys = map[string]KeySchema{
	"format": {
		Path:          "format",
		Type:          TypeEnum,
		AllowedValues: []string{"auto", "keep-a-changelog", "conventional-changelog", "plain-markdown", "json"},
		Description:   "Default input dialect for import",
		Default:       "auto",
	},
	"output_format": {
		Path:          "output_format",
		Type:          TypeEnum,
		AllowedValues: []string{"markdown", "json"},
		Description:   "Output format for import and merge",
		Default:       "markdown",
	},
	"date_format": {
		Path:        "date_format",
		Type:        TypeString,
		Description: "Date layout for rendered headings (YYYY, MM, DD tokens)",
		Default:     "YYYY-MM-DD",
	},
	"version_prefix": {
		Path:        "version_prefix",
		Type:        TypeString,
		Description: "Prefix prepended to versions when rendering",
		Default:     "",
	},
	"strategy": {
		Path:          "strategy",
		Type:          TypeEnum,
		AllowedValues: []string{"by-date", "by-version", "by-package"},
		Description:   "Sort strategy for merged output",
		Default:       "by-date",
	},
	"deduplicate": {
		Path:        "deduplicate",
		Type:        TypeBool,
		Description: "Drop duplicate commits while merging",
		Default:     true,
	},
	"deduplicate_key": {
		Path:          "deduplicate_key",
		Type:          TypeEnum,
		AllowedValues: []string{"hash", "message", "both"},
		Description:   "What makes two commits duplicates",
		Default:       "both",
	},
	"preserve_package_prefix": {
		Path:        "preserve_package_prefix",
		Type:        TypeBool,
		Description: "Prefix commit scopes with their package name while merging",
		Default:     false,
	},
	"package_names": {
		Path:        "package_names",
		Type:        TypeStringList,
		Description: "Package name per merge source, in argument order",
		Default:     []string{},
	},
	"max_parallel": {
		Path:        "max_parallel",
		Type:        TypeInt,
		Description: "Concurrent source reads during merge (1-32)",
		Default:     4,
	},
	"repo_url": {
		Path:        "repo_url",
		Type:        TypeString,
		Description: `Repository URL for commit/compare links ("auto" detects the git remote)`,
		Default:     "",
	},
	"plain": {
		Path:        "plain",
		Type:        TypeBool,
		Description: "Disable colors and the progress spinner",
		Default:     false,
	},
	"watch_debounce": {
		Path:        "watch_debounce",
		Type:        TypeDuration,
		Description: "Quiet period before a watched merge re-runs",
		Default:     "300ms",
	},
}

// ErrUnknownKey is returned when looking up an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (KeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return KeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeyPaths returns all known key paths in alphabetical order,
// for stable config keys output.
func SortedKeyPaths() []string {
	paths := make([]string, 0, len(KnownKeys))
	for path := range KnownKeys {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
