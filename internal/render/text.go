package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonbarril/vgl/internal/status"
	"github.com/jonbarril/vgl/internal/verbosity"
)

const (
	cleanLine = "clean"
	noneLine  = "  (none)"
	detail    = "    "
)

// textWriter accumulates lines for one text rendering.
type textWriter struct {
	b    strings.Builder
	pal  palette
	opts Options
	tier verbosity.Tier
}

func (w *textWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func renderText(report *status.StatusReport, tier verbosity.Tier, opts Options) (string, error) {
	w := &textWriter{pal: newPalette(opts.Color), opts: opts, tier: tier}
	changed := report.Changed()

	switch tier {
	case verbosity.Terse:
		w.terse(report, changed)
	case verbosity.Verbose, verbosity.VeryVerbose:
		w.sections(report, changed)
	default:
		return "", &status.RenderError{Reason: fmt.Sprintf("unknown tier %s", tier)}
	}
	return w.b.String(), nil
}

// terse prints one line per changed path: conflicts, then other staged
// entries, then unstaged, then untracked. Ignored paths are omitted. A staged
// deletion with an untracked file left at its path gets a line in each group.
func (w *textWriter) terse(report *status.StatusReport, changed []status.StatusEntry) {
	if report.Clean() {
		w.line(cleanLine)
		return
	}
	for _, group := range terseGroups(changed) {
		for _, e := range group {
			w.entry(e)
		}
	}
}

func terseGroups(entries []status.StatusEntry) [4][]status.StatusEntry {
	var groups [4][]status.StatusEntry
	for _, e := range entries {
		switch {
		case e.Conflicted():
			groups[0] = append(groups[0], e)
		case e.Staged():
			groups[1] = append(groups[1], e)
		case e.Unstaged():
			groups[2] = append(groups[2], e)
		}
		if e.Untracked() {
			groups[3] = append(groups[3], e.WorktreeOnly())
		}
	}
	return groups
}

func (w *textWriter) sections(report *status.StatusReport, changed []status.StatusEntry) {
	w.line("root: %s", report.Root())
	branch, hasBranch := report.Branch()
	if hasBranch {
		w.branch(branch, report.Pending())
	}
	w.line("summary: %s", summaryLine(report.Summary()))
	if report.Clean() {
		w.line(cleanLine)
	}

	var conflicts, staged, unstaged, untracked, ignored []status.StatusEntry
	for _, e := range changed {
		switch {
		case e.Conflicted():
			conflicts = append(conflicts, e)
		case e.Staged():
			staged = append(staged, e)
		}
		if e.Unstaged() {
			unstaged = append(unstaged, e)
		}
		if e.Untracked() {
			untracked = append(untracked, e.WorktreeOnly())
		}
		if e.Ignored() {
			ignored = append(ignored, e.WorktreeOnly())
		}
	}

	w.section("Staged changes:", append(conflicts, staged...))
	w.section("Unstaged changes:", unstaged)
	w.section("Untracked files:", untracked)
	w.section("Ignored files:", ignored)
	if hasBranch {
		w.branches(branch)
	}

	if w.tier.AtLeast(verbosity.VeryVerbose) {
		w.ignoreRules(ignored)
	}
}

// branch prints where HEAD is and how it compares with its upstream.
func (w *textWriter) branch(b status.Branch, pending int) {
	if b.Detached() {
		w.line("branch: (detached)")
	} else {
		w.line("branch: %s", b.Name)
	}
	if b.Unborn() {
		w.line("head: (no commits yet)")
	} else {
		w.line("head: %s", strings.TrimSpace(w.fingerprint(b.Head)+" "+b.Subject))
	}

	switch {
	case b.Upstream == "":
		w.line("upstream: (none)")
	case b.UpstreamGone:
		w.line("upstream: %s (gone)", b.Upstream)
	default:
		w.line("upstream: %s, %d ahead, %d behind", b.Upstream, b.Ahead, b.Behind)
	}
	if b.RemoteURL != "" && w.tier.AtLeast(verbosity.VeryVerbose) {
		w.line("remote: %s", b.RemoteURL)
	}
	w.line("commits: %d to commit, %d to push, %d to pull", pending, b.Ahead, b.Behind)
}

func (w *textWriter) branches(b status.Branch) {
	w.line("%s", w.pal.header.Sprint("Branches:"))
	if len(b.Local) == 0 {
		w.line(noneLine)
		return
	}
	for _, name := range b.Local {
		if name == b.Name {
			w.line("%s %s", w.pal.staged.Sprint("*"), name)
			continue
		}
		w.line("  %s", name)
	}
}

func (w *textWriter) section(title string, entries []status.StatusEntry) {
	w.line("%s", w.pal.header.Sprint(title))
	if len(entries) == 0 {
		w.line(noneLine)
		return
	}
	for _, e := range entries {
		w.entry(e)
		if w.tier.AtLeast(verbosity.VeryVerbose) {
			w.details(e)
		}
	}
}

// entry prints the line shared by every tier.
func (w *textWriter) entry(e status.StatusEntry) {
	w.line("%s %s", w.pal.code(e), e.DisplayPath())
}

func (w *textWriter) details(e status.StatusEntry) {
	if e.IndexState == status.IndexRenamed || e.IndexState == status.IndexCopied {
		w.line("%ssimilarity: %d%%", detail, int(math.Round(e.Similarity*100)))
	}
	if e.ModeChanged {
		w.line("%smode: %s -> %s", detail, e.HeadMode, e.IndexMode)
	}
	if e.NestedRepo {
		w.line("%s(repo)", detail)
	}
	w.line("%sfingerprints: head=%s index=%s worktree=%s", detail,
		w.fingerprint(e.HeadHash), w.fingerprint(e.IndexHash), w.fingerprint(e.WorktreeHash))
}

func (w *textWriter) fingerprint(h string) string {
	if h == "" {
		return "-"
	}
	if len(h) > w.opts.FingerprintWidth {
		return h[:w.opts.FingerprintWidth]
	}
	return h
}

func (w *textWriter) ignoreRules(ignored []status.StatusEntry) {
	w.line("%s", w.pal.header.Sprint("Ignore rules:"))
	if len(ignored) == 0 {
		w.line(noneLine)
		return
	}
	for _, e := range ignored {
		if e.IgnoredBy.IsZero() {
			w.line("  %s  (rule unknown)", e.Path)
			continue
		}
		m := e.IgnoredBy
		w.line("  %s  %s:%d  %s", e.Path, m.Source, m.Line, m.Pattern)
	}
}

func summaryLine(s status.Summary) string {
	staged := s.Index.Added + s.Index.Modified + s.Index.Deleted + s.Index.Renamed + s.Index.Copied
	unstaged := s.Worktree.Modified + s.Worktree.Deleted
	return fmt.Sprintf("%d staged, %d unstaged, %d untracked, %d ignored, %d conflicted, %d unmodified, %d total",
		staged, unstaged, s.Worktree.Untracked, s.Worktree.Ignored, s.Index.Conflicted, s.Unmodified, s.Total)
}
