package utils

// BucketQueue orders merge candidates by rank using one bucket per rank.
// Each bucket is kept sorted by position so equal ranks resolve leftmost
// first. Push and Pop are cheap when ranks are small dense integers, which
// merge ranks always are.
type BucketQueue struct {
	buckets    [][]MergeCand
	current    int // no non-empty bucket below this index
	totalCount int
}

func NewBucketQueue(maxRank int) *BucketQueue {
	return &BucketQueue{
		buckets: make([][]MergeCand, maxRank+1),
	}
}

func (bq *BucketQueue) Len() int {
	return bq.totalCount
}

func (bq *BucketQueue) Push(c MergeCand) {
	rank := c.Rank
	if rank >= len(bq.buckets) {
		grown := make([][]MergeCand, rank+1)
		copy(grown, bq.buckets)
		bq.buckets = grown
	}

	bucket := bq.buckets[rank]
	n := len(bucket)

	// binary search for the first entry at or right of c.Pos
	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		if bucket[mid].Pos < c.Pos {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo == n {
		bucket = append(bucket, c)
	} else {
		bucket = append(bucket, MergeCand{})
		copy(bucket[lo+1:], bucket[lo:])
		bucket[lo] = c
	}
	bq.buckets[rank] = bucket
	bq.totalCount++

	// merges create new pairs whose rank may be lower than anything popped so far
	if bq.totalCount == 1 || rank < bq.current {
		bq.current = rank
	}
}

func (bq *BucketQueue) Pop() (MergeCand, bool) {
	if bq.totalCount == 0 {
		return MergeCand{}, false
	}

	for bq.current < len(bq.buckets) && len(bq.buckets[bq.current]) == 0 {
		bq.current++
	}

	bucket := bq.buckets[bq.current]
	c := bucket[0]
	bq.buckets[bq.current] = bucket[1:]
	bq.totalCount--

	return c, true
}

// Reset drops every pending candidate.
func (bq *BucketQueue) Reset() {
	for i := range bq.buckets {
		bq.buckets[i] = bq.buckets[i][:0]
	}
	bq.current = 0
	bq.totalCount = 0
}
