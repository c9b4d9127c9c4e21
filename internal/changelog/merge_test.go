package changelog

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkCommit(hash, typ, scope, subject, date string) *Commit {
	short := hash
	if len(short) > shortHashLen {
		short = short[:shortHashLen]
	}
	return &Commit{
		Hash:      hash,
		ShortHash: short,
		Type:      typ,
		Scope:     scope,
		Subject:   subject,
		Author:    Author{Name: VersionUnknown},
		Date:      date,
	}
}

func mkDoc(version, date string, commits ...*Commit) *Document {
	doc := &Document{Version: version, Date: date, Commits: commits}
	if len(commits) > 0 {
		doc.Sections = []*Section{{Title: "Changes", Type: TypeOther, Commits: commits}}
	}
	doc.RefreshStats()
	return doc
}

const sharedHash = "abc1234000000000000000000000000000000000"

func TestMergeDocumentsDedupByHash(t *testing.T) {
	t.Parallel()

	a := mkDoc("1.0.0", "2024-01-01",
		mkCommit(sharedHash, TypeFix, "core", "fix leak", "2024-01-01"))
	b := mkDoc("1.0.0", "2024-01-01",
		mkCommit(sharedHash, TypeFix, "core", "fix leak", "2024-01-01"))

	merged, err := MergeDocuments([]*Document{a, b}, nil, MergeOptions{Deduplicate: true, DeduplicateKey: DedupByHash})
	require.NoError(t, err)
	require.Len(t, merged.Commits, 1)
	assert.Equal(t, "fix leak", merged.Commits[0].Subject)
	assert.Equal(t, "1.0.0", merged.Version)
}

func TestMergeDedupFirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	first := mkCommit(sharedHash, TypeFix, "core", "fix leak (original wording)", "2024-02-02")
	second := mkCommit(sharedHash, TypeFix, "core", "fix leak (reworded)", "2024-02-02")

	merged, err := MergeDocuments(
		[]*Document{mkDoc("1.0.0", "2024-02-02", first), mkDoc("1.1.0", "2024-02-02", second)},
		nil,
		MergeOptions{Deduplicate: true, DeduplicateKey: DedupByHash},
	)
	require.NoError(t, err)
	require.Len(t, merged.Commits, 1)
	assert.Equal(t, "fix leak (original wording)", merged.Commits[0].Subject)
}

func TestMergeCardinality(t *testing.T) {
	t.Parallel()

	shared := mkCommit(sharedHash, TypeFix, "", "shared fix", "2024-01-01")
	sharedAgain := mkCommit(sharedHash, TypeFix, "", "shared fix", "2024-01-01")
	a := mkDoc("1.0.0", "2024-01-01", shared, mkCommit("bbbb"+strings.Repeat("0", 36), TypeFeat, "", "only in a", "2024-01-01"))
	b := mkDoc("1.0.0", "2024-01-01", sharedAgain, mkCommit("cccc"+strings.Repeat("0", 36), TypeFeat, "", "only in b", "2024-01-01"))

	with, err := MergeDocuments([]*Document{a, b}, nil, MergeOptions{Deduplicate: true})
	require.NoError(t, err)
	assert.Len(t, with.Commits, 3)

	without, err := MergeDocuments([]*Document{a, b}, nil, MergeOptions{})
	require.NoError(t, err)
	assert.Len(t, without.Commits, 4, "without deduplication every input commit survives")
}

func TestMergeDedupIdempotent(t *testing.T) {
	t.Parallel()

	commits := []*Commit{
		mkCommit(sharedHash, TypeFix, "core", "fix leak", "2024-01-01"),
		mkCommit(sharedHash, TypeFix, "core", "fix leak", "2024-01-01"),
		mkCommit("dddd"+strings.Repeat("0", 36), TypeFeat, "", "new thing", "2024-01-02"),
	}

	once := DedupCommits(commits, DedupByBoth)
	twice := DedupCommits(once, DedupByBoth)
	assert.Equal(t, once, twice)
	assert.Len(t, once, 2)
}

func TestDedupKeyFor(t *testing.T) {
	t.Parallel()

	c := mkCommit(sharedHash, TypeFix, "core", "fix leak", "2024-01-01")

	tests := map[string]struct {
		key  DedupKey
		want string
	}{
		"hash":        {key: DedupByHash, want: sharedHash},
		"message":     {key: DedupByMessage, want: "fix:core:fix leak"},
		"both":        {key: DedupByBoth, want: sharedHash + ":fix leak"},
		"unset, both": {key: "", want: sharedHash + ":fix leak"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, DedupKeyFor(c, tt.key))
		})
	}
}

func TestMergeDedupByMessageAcrossDifferentHashes(t *testing.T) {
	t.Parallel()

	a := mkDoc("1.0.0", "2024-01-01", mkCommit("aaaa"+strings.Repeat("0", 36), TypeFix, "core", "fix leak", "2024-01-01"))
	b := mkDoc("1.0.0", "2024-01-01", mkCommit("bbbb"+strings.Repeat("0", 36), TypeFix, "core", "fix leak", "2024-01-01"))

	merged, err := MergeDocuments([]*Document{a, b}, nil, MergeOptions{Deduplicate: true, DeduplicateKey: DedupByMessage})
	require.NoError(t, err)
	assert.Len(t, merged.Commits, 1)
}

func TestMergePackagePrefix(t *testing.T) {
	t.Parallel()

	a := mkDoc("1.0.0", "2024-01-01", mkCommit("aaaa"+strings.Repeat("0", 36), TypeFix, "parser", "fix grammar", "2024-01-01"))
	b := mkDoc("1.1.0", "2024-01-02", mkCommit("bbbb"+strings.Repeat("0", 36), TypeFeat, "", "add exporter", "2024-01-02"))

	merged, err := MergeDocuments([]*Document{a, b}, []string{"core", "store"}, MergeOptions{
		Strategy:              StrategyByVersion,
		PreservePackagePrefix: true,
	})
	require.NoError(t, err)
	require.Len(t, merged.Commits, 2)
	assert.Equal(t, "core/parser", merged.Commits[0].Scope, "existing scopes get the package prepended")
	assert.Equal(t, "store", merged.Commits[1].Scope, "scopeless commits take the package name")

	assert.Equal(t, "parser", a.Commits[0].Scope, "inputs are never mutated")
	assert.Empty(t, b.Commits[0].Scope)
}

func TestMergeWithoutPrefixKeepsScopes(t *testing.T) {
	t.Parallel()

	a := mkDoc("1.0.0", "2024-01-01", mkCommit("aaaa"+strings.Repeat("0", 36), TypeFix, "parser", "fix grammar", "2024-01-01"))

	merged, err := MergeDocuments([]*Document{a}, []string{"core"}, MergeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "parser", merged.Commits[0].Scope)
}

func TestMergeStrategyByDate(t *testing.T) {
	t.Parallel()

	a := mkDoc("1.0.0", "2024-01-01",
		mkCommit("aaaa"+strings.Repeat("0", 36), TypeFix, "", "oldest", "2024-01-01"),
		mkCommit("bbbb"+strings.Repeat("0", 36), TypeFix, "", "undated", DateUnknown))
	b := mkDoc("1.1.0", "2024-03-01",
		mkCommit("cccc"+strings.Repeat("0", 36), TypeFeat, "", "newest", "2024-03-01"))

	merged, err := MergeDocuments([]*Document{a, b}, nil, MergeOptions{Strategy: StrategyByDate})
	require.NoError(t, err)
	require.Len(t, merged.Commits, 3)
	assert.Equal(t, "newest", merged.Commits[0].Subject)
	assert.Equal(t, "oldest", merged.Commits[1].Subject)
	assert.Equal(t, "undated", merged.Commits[2].Subject, "commits without a date sink to the end")
}

func TestMergeStrategyByVersionKeepsSourceOrder(t *testing.T) {
	t.Parallel()

	a := mkDoc("2.0.0", "2024-03-01", mkCommit("aaaa"+strings.Repeat("0", 36), TypeFeat, "", "from a", "2024-03-01"))
	b := mkDoc("1.0.0", "2024-01-01", mkCommit("bbbb"+strings.Repeat("0", 36), TypeFeat, "", "from b", "2024-01-01"))

	merged, err := MergeDocuments([]*Document{a, b}, nil, MergeOptions{Strategy: StrategyByVersion})
	require.NoError(t, err)
	assert.Equal(t, "from a", merged.Commits[0].Subject)
	assert.Equal(t, "from b", merged.Commits[1].Subject)
}

func TestMergeStrategyByPackage(t *testing.T) {
	t.Parallel()

	merged, err := MergeDocuments([]*Document{
		mkDoc("1.0.0", "2024-01-01",
			mkCommit("aaaa"+strings.Repeat("0", 36), TypeFix, "zeta", "z change", "2024-01-01"),
			mkCommit("bbbb"+strings.Repeat("0", 36), TypeFix, "alpha", "a change", "2024-01-01"),
			mkCommit("cccc"+strings.Repeat("0", 36), TypeFix, "", "unscoped", "2024-01-01")),
	}, nil, MergeOptions{Strategy: StrategyByPackage})
	require.NoError(t, err)
	assert.Equal(t, "unscoped", merged.Commits[0].Subject, "empty scopes sort first")
	assert.Equal(t, "a change", merged.Commits[1].Subject)
	assert.Equal(t, "z change", merged.Commits[2].Subject)
}

func TestMergeVersionSelection(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		docs []*Document
		want string
	}{
		"single version": {
			docs: []*Document{
				mkDoc("1.0.0", "2024-01-01", mkCommit("aaaa"+strings.Repeat("0", 36), TypeFix, "", "x1", "2024-01-01")),
				mkDoc("1.0.0", "2024-01-02", mkCommit("bbbb"+strings.Repeat("0", 36), TypeFix, "", "x2", "2024-01-02")),
			},
			want: "1.0.0",
		},
		"differing versions": {
			docs: []*Document{
				mkDoc("1.0.0", "2024-01-01", mkCommit("aaaa"+strings.Repeat("0", 36), TypeFix, "", "x1", "2024-01-01")),
				mkDoc("2.0.0", "2024-01-02", mkCommit("bbbb"+strings.Repeat("0", 36), TypeFix, "", "x2", "2024-01-02")),
			},
			want: VersionMultiple,
		},
		"all empty": {
			docs: []*Document{mkDoc("1.0.0", "2024-01-01"), mkDoc("2.0.0", "2024-01-02")},
			want: VersionUnknown,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			merged, err := MergeDocuments(tt.docs, nil, MergeOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, merged.Version)
		})
	}
}

func TestMergeDateIsNewestCommitDate(t *testing.T) {
	t.Parallel()

	merged, err := MergeDocuments([]*Document{
		mkDoc("1.0.0", "2024-01-01", mkCommit("aaaa"+strings.Repeat("0", 36), TypeFix, "", "x1", "2024-01-01")),
		mkDoc("1.0.0", "2024-05-05", mkCommit("bbbb"+strings.Repeat("0", 36), TypeFix, "", "x2", "2024-05-05")),
	}, nil, MergeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-05", merged.Date)

	undated, err := MergeDocuments([]*Document{mkDoc("1.0.0", DateUnknown)}, nil, MergeOptions{})
	require.NoError(t, err)
	assert.Equal(t, DateUnknown, undated.Date)
}

func TestMergeDedupCascadesIntoSections(t *testing.T) {
	t.Parallel()

	a := mkDoc("1.0.0", "2024-01-01", mkCommit(sharedHash, TypeFix, "", "same fix", "2024-01-01"))
	b := mkDoc("1.0.0", "2024-01-01", mkCommit(sharedHash, TypeFix, "", "same fix", "2024-01-01"))

	merged, err := MergeDocuments([]*Document{a, b}, nil, MergeOptions{Deduplicate: true})
	require.NoError(t, err)
	require.Len(t, merged.Commits, 1)
	require.Len(t, merged.Sections, 1, "sections emptied by deduplication are dropped")

	survivors := make(map[*Commit]bool)
	for _, c := range merged.Commits {
		survivors[c] = true
	}
	for _, s := range merged.Sections {
		require.NotEmpty(t, s.Commits)
		for _, c := range s.Commits {
			assert.True(t, survivors[c], "sections must only reference surviving commits")
		}
	}
	require.NotNil(t, merged.Stats)
	assert.Equal(t, 1, merged.Stats.TotalCommits)
}

func TestMergeDocumentsEmpty(t *testing.T) {
	t.Parallel()

	_, err := MergeDocuments(nil, nil, MergeOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one source")
}

func TestEngineMergeFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	kac := filepath.Join(dir, "core.md")
	plain := filepath.Join(dir, "store.md")
	require.NoError(t, os.WriteFile(kac, []byte("## [1.4.0] - 2024-02-02\n\n### Added\n\n- core exporter\n"), 0o644))
	require.NoError(t, os.WriteFile(plain, []byte("## 0.3.0 - 2024-01-01\n\n### Features\n\n- store compaction\n"), 0o644))

	engine := NewEngine(WithMaxParallel(2))
	merged, err := engine.Merge(context.Background(), []Source{
		{Path: kac, PackageName: "core"},
		{Path: plain, PackageName: "store"},
	}, MergeOptions{Strategy: StrategyByVersion, PreservePackagePrefix: true})
	require.NoError(t, err)

	require.Len(t, merged.Commits, 2)
	assert.Equal(t, "core exporter", merged.Commits[0].Subject, "recombination preserves source order")
	assert.Equal(t, "core", merged.Commits[0].Scope)
	assert.Equal(t, "store", merged.Commits[1].Scope)
	assert.Equal(t, VersionMultiple, merged.Version)
	assert.Equal(t, "2024-02-02", merged.Date)
}

func TestEngineMergeFlattensMultiVersionSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "CHANGELOG.md")
	require.NoError(t, os.WriteFile(path, []byte(keepAChangelogSample), 0o644))

	engine := NewEngine()
	merged, err := engine.Merge(context.Background(), []Source{{Path: path}}, MergeOptions{Strategy: StrategyByVersion})
	require.NoError(t, err)
	assert.Len(t, merged.Commits, 4, "all version blocks of one source fold into the merge")
	assert.Equal(t, "1.2.0", merged.Version, "the newest block names the flattened source")
}

func TestEngineMergeMissingFile(t *testing.T) {
	t.Parallel()

	engine := NewEngine()
	_, err := engine.Merge(context.Background(), []Source{{Path: filepath.Join(t.TempDir(), "absent.md")}}, MergeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.True(t, IsParseError(err))
}

func TestEngineMergeCanceledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "CHANGELOG.md")
	require.NoError(t, os.WriteFile(path, []byte(keepAChangelogSample), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine()
	_, err := engine.Merge(ctx, []Source{{Path: path}}, MergeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngineMergeNoSources(t *testing.T) {
	t.Parallel()

	engine := NewEngine()
	_, err := engine.Merge(context.Background(), nil, MergeOptions{})
	require.Error(t, err)
}

func TestEngineMergeManySourcesDeterministic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sources := make([]Source, 8)
	for i := range sources {
		name := string(rune('a'+i)) + ".md"
		path := filepath.Join(dir, name)
		content := "## 1.0." + string(rune('0'+i)) + " - 2024-01-0" + string(rune('1'+i)) + "\n\n- entry from " + name + "\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		sources[i] = Source{Path: path}
	}

	engine := NewEngine(WithMaxParallel(3))
	first, err := engine.Merge(context.Background(), sources, MergeOptions{Strategy: StrategyByVersion})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := engine.Merge(context.Background(), sources, MergeOptions{Strategy: StrategyByVersion})
		require.NoError(t, err)
		require.Equal(t, len(first.Commits), len(again.Commits))
		for i := range first.Commits {
			assert.Equal(t, first.Commits[i].Subject, again.Commits[i].Subject)
		}
	}
}
