package utils

// MergeCand is a pending merge of slot Pos with its right neighbour.
// VerL/VerR snapshot the slot versions at push time; a candidate whose
// versions no longer match is stale and must be skipped by the consumer.
type MergeCand struct {
	Rank  int // rule rank, lower was learned earlier
	Pos   int // left slot index; slot indices keep their left-to-right order
	Left  int // left symbol id at push time
	Right int // right symbol id at push time
	VerL  int
	VerR  int
}

// MergeQueue hands out merge candidates in the order a segmentation policy
// wants them applied.
type MergeQueue interface {
	Push(c MergeCand)
	Pop() (MergeCand, bool)
	Len() int
	Reset()
}
