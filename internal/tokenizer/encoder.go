package tokenizer

import (
	"strings"

	"github.com/bpetrain/internal/utils"
)

// Tokenize segments every whitespace-delimited word of text with the model's
// merge rules and returns the symbols of all words in order.
func (m *Model) Tokenize(text string) []string {
	var out []string
	for _, word := range strings.Fields(text) {
		syms, _ := m.segmentWord(word)
		out = append(out, syms...)
	}
	return out
}

// Encode segments text like Tokenize and maps each symbol to its id. Symbols
// outside the vocab (characters never seen in training) become UnknownID.
func (m *Model) Encode(text string) []int {
	var out []int
	for _, word := range strings.Fields(text) {
		_, ids := m.segmentWord(word)
		for _, id := range ids {
			if id < 0 {
				id = UnknownID
			}
			out = append(out, id)
		}
	}
	return out
}

// segmentWord applies merges to a single word. It returns the final symbols
// and their ids, with -1 for symbols missing from the vocab.
//
// The word is held as a doubly linked list of slots. Every adjacent pair with
// a rule is pushed as a candidate; popping one merges the right slot into the
// left slot and pushes the (at most two) pairs that changed. Slot versions
// invalidate candidates that mention a slot which changed since the push.
//
// Slot indices follow the left-to-right order of the list, so a queue ordered
// by position always pops the leftmost live match. That is exactly what a
// rescan from the start of the word after every merge would find.
func (m *Model) segmentWord(word string) ([]string, []int) {
	syms := splitChars(word)
	n := len(syms)
	ids := make([]int, n)
	for i, s := range syms {
		if id, ok := m.vocab.ID(s); ok {
			ids[i] = id
		} else {
			ids[i] = -1 // unknown characters never take part in a merge
		}
	}

	if n < 2 || len(m.merges) == 0 {
		return syms, ids
	}

	sc := m.acquireScratch(n)
	defer m.releaseScratch(sc)

	prev, next, live := sc.prev, sc.next, sc.live
	for i := 0; i < n; i++ {
		prev[i] = i - 1
		next[i] = i + 1
		live[i] = 0
	}
	next[n-1] = -1

	q := sc.queue(m)

	pushIfMergeable := func(i int) {
		if i == -1 {
			return
		}
		j := next[i]
		if j == -1 {
			return
		}

		a, b := ids[i], ids[j]
		info, ok := m.table.Lookup(a, b)
		if !ok {
			return
		}
		rank, _ := unpackRule(info)
		q.Push(utils.MergeCand{
			Rank:  rank,
			Pos:   i,
			Left:  a,
			Right: b,
			VerL:  live[i],
			VerR:  live[j],
		})
	}

	for i := 0; i != -1; i = next[i] {
		pushIfMergeable(i)
	}

	for {
		c, ok := q.Pop()
		if !ok {
			break
		}

		i := c.Pos
		j := next[i]
		if j == -1 {
			continue // i was absorbed or lost its right neighbour
		}
		if live[i] != c.VerL || live[j] != c.VerR {
			continue // stale
		}
		if ids[i] != c.Left || ids[j] != c.Right {
			continue
		}

		info, _ := m.table.Lookup(ids[i], ids[j])
		_, merged := unpackRule(info)

		// collapse j into slot i
		ids[i] = merged
		syms[i] += syms[j]

		nj := next[j]
		next[i] = nj
		if nj != -1 {
			prev[nj] = i
		}
		prev[j], next[j] = -1, -1

		live[i]++
		live[j]++

		if pi := prev[i]; pi != -1 {
			pushIfMergeable(pi)
		}
		pushIfMergeable(i)
	}

	outSyms := make([]string, 0, n)
	outIDs := make([]int, 0, n)
	for i := 0; i != -1; i = next[i] {
		outSyms = append(outSyms, syms[i])
		outIDs = append(outIDs, ids[i])
	}
	return outSyms, outIDs
}

type segmentScratch struct {
	prev []int
	next []int
	live []int

	heap    *utils.MergeHeap
	buckets *utils.BucketQueue
}

func (m *Model) acquireScratch(n int) *segmentScratch {
	v := m.scratch.Get()
	var sc *segmentScratch
	if v == nil {
		sc = &segmentScratch{}
	} else {
		sc = v.(*segmentScratch)
	}
	sc.prev = ensureIntCapacity(sc.prev, n)
	sc.next = ensureIntCapacity(sc.next, n)
	sc.live = ensureIntCapacity(sc.live, n)
	return sc
}

func (m *Model) releaseScratch(sc *segmentScratch) {
	m.scratch.Put(sc)
}

// queue returns an empty candidate queue ordered for the model's policy.
func (sc *segmentScratch) queue(m *Model) utils.MergeQueue {
	if m.policy == SegmentRank {
		if sc.buckets == nil {
			sc.buckets = utils.NewBucketQueue(len(m.merges))
		}
		sc.buckets.Reset()
		return sc.buckets
	}

	if sc.heap == nil {
		sc.heap = utils.NewMergeHeap(false)
	}
	sc.heap.Reset()
	return sc.heap
}

func ensureIntCapacity(buf []int, n int) []int {
	if cap(buf) < n {
		return make([]int, n)
	}
	return buf[:n]
}
