package render

import (
	"bytes"
	"encoding/json"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/jonbarril/vgl/internal/status"
)

// document is the structured form of a report. Field order is part of the
// output contract.
type document struct {
	Root    string     `json:"root" yaml:"root"`
	Clean   bool       `json:"clean" yaml:"clean"`
	Entries []entryDoc `json:"entries" yaml:"entries"`
	Summary summaryDoc `json:"summary" yaml:"summary"`
	Branch  *branchDoc `json:"branch,omitempty" yaml:"branch,omitempty"`
}

type branchDoc struct {
	Name         string   `json:"name" yaml:"name"`
	Detached     bool     `json:"detached" yaml:"detached"`
	Head         string   `json:"head,omitempty" yaml:"head,omitempty"`
	Subject      string   `json:"subject,omitempty" yaml:"subject,omitempty"`
	Upstream     string   `json:"upstream,omitempty" yaml:"upstream,omitempty"`
	RemoteURL    string   `json:"remoteUrl,omitempty" yaml:"remoteUrl,omitempty"`
	UpstreamGone bool     `json:"upstreamGone,omitempty" yaml:"upstreamGone,omitempty"`
	ToCommit     int      `json:"toCommit" yaml:"toCommit"`
	ToPush       int      `json:"toPush" yaml:"toPush"`
	ToPull       int      `json:"toPull" yaml:"toPull"`
	Local        []string `json:"local" yaml:"local"`
}

type entryDoc struct {
	Path          string   `json:"path" yaml:"path"`
	IndexState    string   `json:"indexState" yaml:"indexState"`
	WorktreeState string   `json:"worktreeState" yaml:"worktreeState"`
	RenameFrom    string   `json:"renameFrom,omitempty" yaml:"renameFrom,omitempty"`
	Similarity    *float64 `json:"similarity,omitempty" yaml:"similarity,omitempty"`
	ModeChanged   bool     `json:"modeChanged,omitempty" yaml:"modeChanged,omitempty"`
	HeadHash      string   `json:"headHash,omitempty" yaml:"headHash,omitempty"`
	IndexHash     string   `json:"indexHash,omitempty" yaml:"indexHash,omitempty"`
	WorktreeHash  string   `json:"worktreeHash,omitempty" yaml:"worktreeHash,omitempty"`
	IgnoredBy     string   `json:"ignoredBy,omitempty" yaml:"ignoredBy,omitempty"`
	NestedRepo    bool     `json:"nestedRepo,omitempty" yaml:"nestedRepo,omitempty"`
}

type summaryDoc struct {
	Index      indexDoc    `json:"index" yaml:"index"`
	Worktree   worktreeDoc `json:"worktree" yaml:"worktree"`
	Unmodified int         `json:"unmodified" yaml:"unmodified"`
	Total      int         `json:"total" yaml:"total"`
}

type indexDoc struct {
	Added      int `json:"added" yaml:"added"`
	Modified   int `json:"modified" yaml:"modified"`
	Deleted    int `json:"deleted" yaml:"deleted"`
	Renamed    int `json:"renamed" yaml:"renamed"`
	Copied     int `json:"copied" yaml:"copied"`
	Conflicted int `json:"conflicted" yaml:"conflicted"`
}

type worktreeDoc struct {
	Modified  int `json:"modified" yaml:"modified"`
	Deleted   int `json:"deleted" yaml:"deleted"`
	Untracked int `json:"untracked" yaml:"untracked"`
	Ignored   int `json:"ignored" yaml:"ignored"`
}

func newDocument(report *status.StatusReport) document {
	doc := document{
		Root:    report.Root(),
		Clean:   report.Clean(),
		Entries: []entryDoc{},
	}
	for _, e := range report.Changed() {
		ed := entryDoc{
			Path:          e.Path,
			IndexState:    e.IndexState.String(),
			WorktreeState: e.WorktreeState.String(),
			RenameFrom:    e.RenameFrom,
			ModeChanged:   e.ModeChanged,
			HeadHash:      e.HeadHash,
			IndexHash:     e.IndexHash,
			WorktreeHash:  e.WorktreeHash,
			IgnoredBy:     e.IgnoredBy.String(),
			NestedRepo:    e.NestedRepo,
		}
		if e.RenameFrom != "" {
			sim := math.Round(e.Similarity*1000) / 1000
			ed.Similarity = &sim
		}
		doc.Entries = append(doc.Entries, ed)
	}

	s := report.Summary()
	doc.Summary = summaryDoc{
		Index: indexDoc{
			Added:      s.Index.Added,
			Modified:   s.Index.Modified,
			Deleted:    s.Index.Deleted,
			Renamed:    s.Index.Renamed,
			Copied:     s.Index.Copied,
			Conflicted: s.Index.Conflicted,
		},
		Worktree: worktreeDoc{
			Modified:  s.Worktree.Modified,
			Deleted:   s.Worktree.Deleted,
			Untracked: s.Worktree.Untracked,
			Ignored:   s.Worktree.Ignored,
		},
		Unmodified: s.Unmodified,
		Total:      s.Total,
	}

	if b, ok := report.Branch(); ok {
		doc.Branch = &branchDoc{
			Name:         b.Name,
			Detached:     b.Detached(),
			Head:         b.Head,
			Subject:      b.Subject,
			Upstream:     b.Upstream,
			RemoteURL:    b.RemoteURL,
			UpstreamGone: b.UpstreamGone,
			ToCommit:     report.Pending(),
			ToPush:       b.Ahead,
			ToPull:       b.Behind,
			Local:        append([]string{}, b.Local...),
		}
	}
	return doc
}

func renderJSON(report *status.StatusReport) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(newDocument(report)); err != nil {
		return "", &status.RenderError{Reason: "encode json: " + err.Error()}
	}
	return buf.String(), nil
}

func renderYAML(report *status.StatusReport) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(report)); err != nil {
		return "", &status.RenderError{Reason: "encode yaml: " + err.Error()}
	}
	if err := enc.Close(); err != nil {
		return "", &status.RenderError{Reason: "encode yaml: " + err.Error()}
	}
	return buf.String(), nil
}
