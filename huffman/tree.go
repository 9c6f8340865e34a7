// Package huffman builds and applies the per-store Huffman codebook that
// compresses the gram stream a trail encodes into (§4.5 "Huffman coding").
// It translates original_source/src/tdb_huffman.c: frequencies come in
// keyed by model.Gram instead of a packed 64-bit Judy key, and tree
// construction uses the generic internal/pqueue min-priority queue instead
// of the original's specialized two-queue (presorted-array + FIFO) linear
// time construction — that trick exists only to avoid the queue's
// log-n overhead in C; a single O(n log n) heap is simpler and produces an
// equally optimal (if not always identically shaped) tree.
package huffman

import (
	"github.com/traildb/tdb-go/internal/pqueue"
	"github.com/traildb/tdb-go/model"
)

// maxCodeBits bounds codeword length. original_source/src/tdb_huffman.c
// handles a tree deeper than this by silently collapsing an entire
// subtree onto its internal node's codeword (allocate_codewords stops
// recursing at depth 16 even for internal nodes), which can merge distinct
// symbols under one ambiguous code. This translation instead declines to
// assign a code to any symbol whose natural depth exceeds maxCodeBits,
// which always stays unambiguous. Depth is set by how skewed the weights
// are, not by the symbol count: Fibonacci-like weights push a tree past 16
// levels with only 18 symbols, well under HuffCodebookSize's 65536 cap.
const maxCodeBits = 16

type node struct {
	gram        model.Gram
	isLeaf      bool
	left, right *node
}

// buildTree constructs a Huffman tree over at most format.HuffCodebookSize
// of the most frequent grams in freqs, returning the root (nil if freqs is
// empty).
func buildTree(symbols []model.Gram, weights map[model.Gram]uint64) *node {
	if len(symbols) == 0 {
		return nil
	}

	q := pqueue.New(len(symbols) * 2)
	for _, g := range symbols {
		q.Push(&node{gram: g, isLeaf: true}, weights[g])
	}

	for q.Len() > 1 {
		left := q.Pop()
		right := q.Pop()
		parent := &node{left: left.Value.(*node), right: right.Value.(*node)}
		q.Push(parent, left.Weight+right.Weight)
	}
	return q.Pop().Value.(*node)
}

// assignCodes walks the tree depth-first, recording each leaf's (code,
// bits) into out, skipping any leaf deeper than maxCodeBits
// (allocate_codewords in tdb_huffman.c).
func assignCodes(n *node, code uint32, depth uint32, out map[model.Gram]Code) {
	if n == nil {
		return
	}
	if n.isLeaf {
		if depth <= maxCodeBits {
			out[n.gram] = Code{Bits: code, Len: depth}
		}
		return
	}
	assignCodes(n.left, code, depth+1, out)
	assignCodes(n.right, code|(1<<depth), depth+1, out)
}
