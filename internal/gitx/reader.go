package gitx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/go-git/go-billy/v5"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/jonbarril/vgl/internal/hash"
	"github.com/jonbarril/vgl/internal/logging"
	"github.com/jonbarril/vgl/internal/status"
)

// RepoReader implements StateProvider with go-git.
type RepoReader struct {
	repo    *git.Repository
	fs      billy.Filesystem
	opts    Options
	hasher  hash.Hasher
	log     logging.Logger
	ignores *ignoreSet

	indexOnce sync.Once
	index     *index.Index
	indexErr  error
}

// NewRepoReader wraps an open repository. The global excludes file and
// info/exclude are read here; .gitignore files are read by ListWorktree as it
// reaches them.
func NewRepoReader(repo *git.Repository, opts Options) (*RepoReader, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return nil, &status.StateReadError{Op: "open worktree", Err: err}
	}

	r := &RepoReader{
		repo:    repo,
		fs:      wt.Filesystem,
		opts:    opts,
		hasher:  opts.Hasher,
		log:     opts.Logger,
		ignores: &ignoreSet{},
	}
	if r.hasher == nil {
		r.hasher = hash.NewBlobHasher()
	}
	if r.log == nil {
		r.log = logging.Nop()
	}
	r.log = r.log.With("component", "gitx")

	rules, err := loadExcludesFile(opts.ExcludesFile)
	if err != nil {
		return nil, &status.StateReadError{Op: "read ignore rules", Path: opts.ExcludesFile, Err: err}
	}
	r.ignores.add(rules)

	if s, ok := repo.Storer.(interface{ Filesystem() billy.Filesystem }); ok {
		rules, err := readIgnoreFile(s.Filesystem(), infoExclude, ".git/"+infoExclude, nil)
		if err != nil {
			return nil, &status.StateReadError{Op: "read ignore rules", Path: ".git/" + infoExclude, Err: err}
		}
		r.ignores.add(rules)
	}

	r.log.Debug("repository opened", "excludes", opts.ExcludesFile, "rules", len(r.ignores.rules))
	return r, nil
}

// ListHead returns the files of the HEAD commit's tree. An unborn HEAD has
// no files.
func (r *RepoReader) ListHead(ctx context.Context) ([]status.PathRecord, error) {
	ref, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		r.log.Debug("unborn HEAD")
		return nil, nil
	}
	if err != nil {
		return nil, &status.StateReadError{Op: "list head", Path: "HEAD", Err: err}
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, &status.StateReadError{Op: "list head", Path: ref.Hash().String(), Err: err}
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, &status.StateReadError{Op: "list head", Path: commit.TreeHash.String(), Err: err}
	}

	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()

	var records []status.PathRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, entry, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &status.StateReadError{Op: "list head", Path: name, Err: err}
		}
		if entry.Mode == filemode.Dir {
			continue
		}
		records = append(records, status.PathRecord{
			Path: name,
			Hash: entry.Hash.String(),
			Mode: convertMode(entry.Mode),
		})
	}

	sortRecords(records)
	return records, nil
}

// ListIndex returns every index entry, conflict stages included.
func (r *RepoReader) ListIndex(ctx context.Context) ([]status.PathRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx, err := r.loadIndex()
	if err != nil {
		return nil, err
	}

	records := make([]status.PathRecord, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		records = append(records, status.PathRecord{
			Path:  e.Name,
			Hash:  e.Hash.String(),
			Mode:  convertMode(e.Mode),
			Stage: int(e.Stage),
			Size:  int64(e.Size),
		})
	}

	sortRecords(records)
	return records, nil
}

// IsIgnored reports whether path is excluded by a loaded ignore rule.
func (r *RepoReader) IsIgnored(path string, isDir bool) bool {
	_, ok := r.ignores.lookup(path, isDir)
	return ok
}

// IgnoreRule returns the rule that excludes path.
func (r *RepoReader) IgnoreRule(path string, isDir bool) (status.IgnoreMatch, bool) {
	return r.ignores.lookup(path, isDir)
}

// Blob returns the contents of the blob with the given hex id.
func (r *RepoReader) Blob(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	blob, err := r.repo.BlobObject(plumbing.NewHash(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load blob %s: %w", id, err)
	}
	rd, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open blob %s: %w", id, err)
	}
	defer func() {
		_ = rd.Close()
	}()
	return io.ReadAll(rd)
}

func (r *RepoReader) loadIndex() (*index.Index, error) {
	r.indexOnce.Do(func() {
		idx, err := r.repo.Storer.Index()
		if err != nil {
			r.indexErr = &status.StateReadError{Op: "list index", Path: ".git/index", Err: err}
			return
		}
		r.index = idx
	})
	return r.index, r.indexErr
}

func convertMode(m filemode.FileMode) status.FileMode {
	switch m {
	case filemode.Regular, filemode.Deprecated:
		return status.ModeRegular
	case filemode.Executable:
		return status.ModeExecutable
	case filemode.Symlink:
		return status.ModeSymlink
	case filemode.Submodule:
		return status.ModeGitlink
	case filemode.Dir:
		return status.ModeDir
	default:
		return status.ModeNone
	}
}

func sortRecords(records []status.PathRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Path != records[j].Path {
			return records[i].Path < records[j].Path
		}
		return records[i].Stage < records[j].Stage
	})
}
