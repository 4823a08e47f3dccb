package status

import "hash/fnv"

// maxChunk bounds the size of one similarity block so long lines without
// newlines still compare in pieces.
const maxChunk = 64

// blockProfile maps a block hash to the number of bytes carried by blocks
// with that hash.
type blockProfile struct {
	blocks map[uint64]int
	size   int
}

func newBlockProfile(data []byte) blockProfile {
	p := blockProfile{blocks: make(map[uint64]int), size: len(data)}
	start := 0
	for i, b := range data {
		if b == '\n' || i-start+1 == maxChunk {
			p.add(data[start : i+1])
			start = i + 1
		}
	}
	if start < len(data) {
		p.add(data[start:])
	}
	return p
}

func (p blockProfile) add(block []byte) {
	h := fnv.New64a()
	_, _ = h.Write(block)
	p.blocks[h.Sum64()] += len(block)
}

// score returns the shared-block ratio of two profiles: bytes in blocks
// common to both divided by the larger size.
func (p blockProfile) score(other blockProfile) float64 {
	larger := max(p.size, other.size)
	if larger == 0 {
		return 1
	}
	shared := 0
	for h, n := range p.blocks {
		if m, ok := other.blocks[h]; ok {
			shared += min(n, m)
		}
	}
	return float64(shared) / float64(larger)
}

// Similarity returns the shared-block ratio of a and b in [0,1].
func Similarity(a, b []byte) float64 {
	return newBlockProfile(a).score(newBlockProfile(b))
}

// sizeBound is the best score two contents of the given sizes can reach.
func sizeBound(a, b int) float64 {
	larger := max(a, b)
	if larger == 0 {
		return 1
	}
	return float64(min(a, b)) / float64(larger)
}
