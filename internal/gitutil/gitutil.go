// Package gitutil reads repository metadata for link building. It uses the
// go-git library so remote detection works without a git CLI installation.
// Only read operations are performed; the tool never mutates a repository.
package gitutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

// debugLogger is a function that logs debug messages when debug mode is
// enabled. By default, it's a no-op. Set it via SetDebugLogger.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens a git repository at the specified path or current working
// directory. DetectDotGit walks up the directory tree to find the root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// IsGitRepository checks if path (or the current directory) is within a
// git repository.
func IsGitRepository(path string) bool {
	_, err := openRepo(path)
	result := err == nil
	logDebug("[git] IsGitRepository: %v", result)
	return result
}

// RemoteURL returns the normalized browse URL of the repository containing
// path. The "origin" remote is preferred; otherwise the first configured
// remote is used.
func RemoteURL(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return "", fmt.Errorf("listing remotes: %w", err)
	}
	if len(remotes) == 0 {
		return "", fmt.Errorf("no remotes configured")
	}

	chosen := remotes[0]
	for _, remote := range remotes {
		if remote.Config().Name == "origin" {
			chosen = remote
			break
		}
	}

	urls := chosen.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", chosen.Config().Name)
	}

	normalized := NormalizeRemoteURL(urls[0])
	logDebug("[git] RemoteURL: %s -> %s", urls[0], normalized)
	return normalized, nil
}

// DetectRepoURL is a non-erroring variant of RemoteURL for the repo_url=auto
// config value. Returns empty string when no repository or remote is found.
func DetectRepoURL(path string) string {
	url, err := RemoteURL(path)
	if err != nil {
		logDebug("[git] DetectRepoURL: %v", err)
		return ""
	}
	return url
}

// NormalizeRemoteURL converts a git remote URL to a browsable https URL.
// SCP-style (git@host:owner/repo.git), ssh:// and git:// forms are rewritten;
// http(s) URLs only lose their .git suffix.
func NormalizeRemoteURL(raw string) string {
	url := strings.TrimSpace(raw)
	if url == "" {
		return ""
	}
	url = strings.TrimSuffix(url, "/")
	url = strings.TrimSuffix(url, ".git")

	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}

	for _, scheme := range []string{"git+ssh://", "ssh://", "git://"} {
		if strings.HasPrefix(url, scheme) {
			rest := strings.TrimPrefix(url, scheme)
			rest = strings.TrimPrefix(rest, "git@")
			return "https://" + rest
		}
	}

	// SCP-style: git@host:owner/repo
	if strings.HasPrefix(url, "git@") {
		rest := strings.TrimPrefix(url, "git@")
		if host, path, found := strings.Cut(rest, ":"); found {
			return "https://" + host + "/" + path
		}
		return "https://" + rest
	}

	return url
}
