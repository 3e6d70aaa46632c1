package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/gobwas/glob"
)

// ErrNoFiles is returned when no pattern matched a file
var ErrNoFiles = errors.New("no files matched")

// DefaultIgnore lists directories never searched for components
var DefaultIgnore = []string{"**/node_modules/**", "**/.git/**", "**/dist/**", "**/build/**"}

// Match is one discovered source file
type Match struct {
	// Path is the file path as found by the walk.
	Path string
	// Rel is the directory of the file relative to the static prefix of the
	// pattern that matched it, "" for files at the pattern base.
	Rel string
}

type compiledPattern struct {
	pattern string
	base    string
	globs   []glob.Glob
}

func (cp compiledPattern) match(path string) bool {
	return matchAny(cp.globs, path)
}

// Finder expands glob patterns into source files
type Finder struct {
	patterns []compiledPattern
	ignore   []glob.Glob
}

// New compiles the include and ignore patterns
func New(patterns, ignore []string) (*Finder, error) {
	f := &Finder{}
	for _, p := range patterns {
		p = strings.TrimPrefix(filepath.ToSlash(p), "./")
		globs, err := compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, compiledPattern{pattern: p, base: staticPrefix(p), globs: globs})
	}
	for _, p := range ignore {
		globs, err := compile(strings.TrimPrefix(filepath.ToSlash(p), "./"))
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		f.ignore = append(f.ignore, globs...)
	}
	return f, nil
}

// compile also accepts every "**/" as matching zero directories, so
// src/**/*.jsx matches src/Card.jsx.
func compile(pattern string) ([]glob.Glob, error) {
	variants := []string{pattern}
	if strings.Contains(pattern, "**/") {
		variants = append(variants, strings.ReplaceAll(pattern, "**/", ""))
	}
	globs := make([]glob.Glob, 0, len(variants))
	for _, v := range variants {
		g, err := glob.Compile(v, '/')
		if err != nil {
			return nil, err
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Find returns the matching files, pattern by pattern, each pattern's files
// in lexical order. A file matched by several patterns is reported once.
func (f *Finder) Find() ([]Match, error) {
	var out []Match
	seen := map[string]bool{}

	for _, cp := range f.patterns {
		matches, err := f.walk(cp)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			key := filepath.Clean(m.Path)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, m)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, f.describe())
	}
	return out, nil
}

func (f *Finder) walk(cp compiledPattern) ([]Match, error) {
	base := filepath.FromSlash(cp.base)
	info, err := os.Stat(base)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// a literal file path
	if !info.IsDir() {
		if f.ignored(cp.pattern) {
			return nil, nil
		}
		return []Match{{Path: base}}, nil
	}

	var matches []Match
	err = filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		slashed := filepath.ToSlash(path)
		if info.IsDir() {
			if path != base && f.ignored(slashed+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if f.ignored(slashed) || !cp.match(slashed) {
			return nil
		}
		rel, err := filepath.Rel(base, filepath.Dir(path))
		if err != nil || rel == "." {
			rel = ""
		}
		matches = append(matches, Match{Path: path, Rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Path < matches[j].Path })
	return matches, nil
}

// Lookup reports whether file is one of the files Find would return and,
// if so, the Match it would be returned as.
func (f *Finder) Lookup(file string) (Match, bool) {
	slashed := filepath.ToSlash(filepath.Clean(file))
	if f.ignored(slashed) {
		return Match{}, false
	}
	for _, cp := range f.patterns {
		if cp.base == cp.pattern {
			if slashed == filepath.ToSlash(filepath.Clean(filepath.FromSlash(cp.pattern))) {
				return Match{Path: filepath.FromSlash(slashed)}, true
			}
			continue
		}
		if !cp.match(slashed) {
			continue
		}
		rel, err := filepath.Rel(filepath.FromSlash(cp.base), filepath.Dir(filepath.FromSlash(slashed)))
		if err != nil || rel == "." {
			rel = ""
		}
		return Match{Path: filepath.FromSlash(slashed), Rel: rel}, true
	}
	return Match{}, false
}

// Roots returns the existing directories the patterns search, in pattern
// order without duplicates.
func (f *Finder) Roots() []string {
	var roots []string
	seen := map[string]bool{}
	for _, cp := range f.patterns {
		dir := filepath.FromSlash(cp.base)
		if info, err := os.Stat(dir); err != nil {
			continue
		} else if !info.IsDir() {
			dir = filepath.Dir(dir)
		}
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}
	return roots
}

// SkipDir reports whether dir is pruned by an ignore pattern
func (f *Finder) SkipDir(dir string) bool {
	return f.ignored(filepath.ToSlash(filepath.Clean(dir)) + "/")
}

func (f *Finder) ignored(path string) bool {
	return matchAny(f.ignore, path)
}

func (f *Finder) describe() string {
	ps := make([]string, len(f.patterns))
	for i, cp := range f.patterns {
		ps[i] = cp.pattern
	}
	return strings.Join(ps, ", ")
}

// staticPrefix returns the directory part of pattern before the first
// segment holding a glob metacharacter. A pattern without metacharacters is
// returned unchanged.
func staticPrefix(pattern string) string {
	if !strings.ContainsAny(pattern, "*?[{") {
		return pattern
	}
	segments := strings.Split(pattern, "/")
	var static []string
	for _, s := range segments {
		if strings.ContainsAny(s, "*?[{") {
			break
		}
		static = append(static, s)
	}
	base := strings.Join(static, "/")
	switch {
	case base == "" && strings.HasPrefix(pattern, "/"):
		return "/"
	case base == "":
		return "."
	}
	return base
}

// ProjectRoot returns the root of the git worktree containing dir, or dir
// itself when it is not inside a repository.
func ProjectRoot(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return dir
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return dir
	}
	return worktree.Filesystem.Root()
}
