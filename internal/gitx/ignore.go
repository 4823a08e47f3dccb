package gitx

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/jonbarril/vgl/internal/status"
)

const (
	gitignoreFile = ".gitignore"
	infoExclude   = "info/exclude"
)

type ignoreRule struct {
	pattern gitignore.Pattern
	match   status.IgnoreMatch
}

// ignoreSet holds rules in precedence order: later rules win. The global
// excludes file comes first, then info/exclude, then .gitignore files from
// the root down as the working tree walk reaches them.
type ignoreSet struct {
	mu    sync.RWMutex
	rules []ignoreRule
}

func (s *ignoreSet) add(rules []ignoreRule) {
	if len(rules) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, rules...)
}

// lookup returns the deciding rule for p. A negated rule that matches last
// un-ignores the path.
func (s *ignoreSet) lookup(p string, isDir bool) (status.IgnoreMatch, bool) {
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return status.IgnoreMatch{}, false
	}
	parts := strings.Split(p, "/")

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.rules) - 1; i >= 0; i-- {
		switch s.rules[i].pattern.Match(parts, isDir) {
		case gitignore.Exclude:
			return s.rules[i].match, true
		case gitignore.Include:
			return status.IgnoreMatch{}, false
		case gitignore.NoMatch:
		}
	}
	return status.IgnoreMatch{}, false
}

// parseIgnore reads patterns from r. source names the file in matches and
// domain is the directory the patterns are relative to.
func parseIgnore(r io.Reader, source string, domain []string) ([]ignoreRule, error) {
	var rules []ignoreRule
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(text, "#") || strings.TrimSpace(text) == "" {
			continue
		}
		rules = append(rules, ignoreRule{
			pattern: gitignore.ParsePattern(text, domain),
			match:   status.IgnoreMatch{Source: source, Line: line, Pattern: strings.TrimSpace(text)},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return rules, nil
}

// readIgnoreFile parses name from fs. A missing file yields no rules.
func readIgnoreFile(fs billy.Filesystem, name, source string, domain []string) ([]ignoreRule, error) {
	f, err := fs.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return parseIgnore(f, source, domain)
}

// GlobalExcludesFile resolves core.excludesfile from the user's global git
// config, falling back to $XDG_CONFIG_HOME/git/ignore. It returns "" when no
// candidate exists.
func GlobalExcludesFile() string {
	if cfg, err := config.LoadConfig(config.GlobalScope); err == nil && cfg.Raw != nil {
		if p := cfg.Raw.Section("core").Option("excludesfile"); p != "" {
			return expandHome(p)
		}
	}

	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	candidate := filepath.Join(base, "git", "ignore")
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func loadExcludesFile(path string) ([]ignoreRule, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return parseIgnore(f, path, nil)
}
