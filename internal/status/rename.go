package status

import (
	"context"
	"sort"
)

// DefaultRenameThreshold is the minimum similarity for a rename or copy.
const DefaultRenameThreshold = 0.5

// ContentSource loads blob contents by hash.
type ContentSource interface {
	Blob(ctx context.Context, hash string) ([]byte, error)
}

// RenameOptions tunes rename and copy detection.
type RenameOptions struct {
	// Threshold is the minimum similarity in [0,1]. Zero means
	// DefaultRenameThreshold.
	Threshold float64

	// DetectCopies pairs added entries with modified entries as copies.
	DetectCopies bool
}

type candidate struct {
	src, dst int
	score    float64
}

// profileCache loads each blob at most once per detection pass.
type profileCache struct {
	ctx      context.Context
	src      ContentSource
	profiles map[string]blockProfile
}

func (c *profileCache) get(hash, path string) (blockProfile, error) {
	if p, ok := c.profiles[hash]; ok {
		return p, nil
	}
	data, err := c.src.Blob(c.ctx, hash)
	if err != nil {
		return blockProfile{}, &StateReadError{Op: "read blob", Path: path, Err: err}
	}
	p := newBlockProfile(data)
	c.profiles[hash] = p
	return p, nil
}

// DetectRenames rewrites deleted/added pairs whose contents are similar enough
// into renamed entries, and optionally added entries similar to a modified
// entry into copied entries. The input is not modified. Assignment is greedy
// by descending score with ties broken by destination then source path, and
// each deleted path is paired at most once. A rename source that still has an
// untracked or ignored file on disk stays behind as a worktree-only entry.
func DetectRenames(ctx context.Context, entries []StatusEntry, src ContentSource, opts RenameOptions) ([]StatusEntry, error) {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultRenameThreshold
	}

	var deleted, added, modified []int
	for i, e := range entries {
		switch {
		case e.IndexState == IndexDeleted:
			deleted = append(deleted, i)
		case e.IndexState == IndexAdded:
			added = append(added, i)
		case e.IndexState == IndexModified:
			modified = append(modified, i)
		}
	}

	out := make([]StatusEntry, len(entries))
	copy(out, entries)
	if len(added) == 0 || (len(deleted) == 0 && (!opts.DetectCopies || len(modified) == 0)) {
		return out, nil
	}

	cache := &profileCache{ctx: ctx, src: src, profiles: make(map[string]blockProfile)}

	renames, err := scorePairs(ctx, cache, entries, deleted, added, threshold)
	if err != nil {
		return nil, err
	}

	removed := make(map[int]bool)
	usedDst := make(map[int]bool)
	usedSrc := make(map[int]bool)
	for _, c := range renames {
		if usedDst[c.dst] || usedSrc[c.src] {
			continue
		}
		usedDst[c.dst] = true
		usedSrc[c.src] = true
		if src := entries[c.src]; src.WorktreeState == WorktreeUnmodified {
			removed[c.src] = true
		} else {
			out[c.src] = src.WorktreeOnly()
		}
		out[c.dst] = pairEntry(entries[c.src], entries[c.dst], IndexRenamed, c.score)
	}

	if opts.DetectCopies && len(modified) > 0 {
		var remaining []int
		for _, i := range added {
			if !usedDst[i] {
				remaining = append(remaining, i)
			}
		}
		copies, err := scorePairs(ctx, cache, entries, modified, remaining, threshold)
		if err != nil {
			return nil, err
		}
		for _, c := range copies {
			if usedDst[c.dst] {
				continue
			}
			usedDst[c.dst] = true
			out[c.dst] = pairEntry(entries[c.src], entries[c.dst], IndexCopied, c.score)
		}
	}

	if len(removed) == 0 {
		return out, nil
	}
	result := make([]StatusEntry, 0, len(out)-len(removed))
	for i, e := range out {
		if !removed[i] {
			result = append(result, e)
		}
	}
	return result, nil
}

// scorePairs returns every pair at or above threshold in assignment order.
func scorePairs(ctx context.Context, cache *profileCache, entries []StatusEntry, sources, dests []int, threshold float64) ([]candidate, error) {
	var pairs []candidate
	for _, d := range dests {
		dst := entries[d]
		for _, s := range sources {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			src := entries[s]
			if src.HeadMode.kind() != dst.IndexMode.kind() {
				continue
			}
			if src.HeadHash == dst.IndexHash {
				pairs = append(pairs, candidate{src: s, dst: d, score: 1})
				continue
			}
			dp, err := cache.get(dst.IndexHash, dst.Path)
			if err != nil {
				return nil, err
			}
			sp, err := cache.get(src.HeadHash, src.Path)
			if err != nil {
				return nil, err
			}
			if sizeBound(sp.size, dp.size) < threshold {
				continue
			}
			if score := sp.score(dp); score >= threshold {
				pairs = append(pairs, candidate{src: s, dst: d, score: score})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if entries[a.dst].Path != entries[b.dst].Path {
			return entries[a.dst].Path < entries[b.dst].Path
		}
		return entries[a.src].Path < entries[b.src].Path
	})
	return pairs, nil
}

func pairEntry(src, dst StatusEntry, state IndexState, score float64) StatusEntry {
	e := dst
	e.IndexState = state
	e.RenameFrom = src.Path
	e.Similarity = score
	e.HeadHash = src.HeadHash
	e.HeadMode = src.HeadMode
	e.ModeChanged = src.HeadMode != dst.IndexMode
	return e
}
