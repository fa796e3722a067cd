package store

import "sort"

// MaxTrades bounds the number of trades held by an Accumulator.
const MaxTrades = 1000

// MergeResult describes what a single Accumulator.Merge changed.
type MergeResult struct {
	Received int // trades in the incoming batch
	Added    int // identifiers not previously held, and still held after the merge
	Replaced int // identifiers already held, overwritten, and still held
	Evicted  int // trades dropped by the MaxTrades bound, new or old
	Total    int // trades held after the merge
}

// Merge upserts incoming into existing by transaction hash and returns a new
// slice sorted by timestamp, most recent first, holding at most MaxTrades.
//
// Incoming trades replace existing trades with the same hash, and later
// entries in incoming replace earlier ones. A replaced trade keeps the
// position its hash was first seen at, so trades with equal timestamps keep
// a stable relative order across merges. Neither input is modified.
func Merge(existing, incoming []Trade) []Trade {
	merged, _ := merge(existing, incoming)
	return merged
}

func merge(existing, incoming []Trade) ([]Trade, MergeResult) {
	res := MergeResult{Received: len(incoming)}

	all := make([]Trade, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing)+len(incoming))

	for _, t := range existing {
		if i, ok := index[t.TransactionHash]; ok {
			all[i] = t
			continue
		}
		index[t.TransactionHash] = len(all)
		all = append(all, t)
	}
	held := len(all)
	added := make(map[string]bool)
	replaced := make(map[string]bool)

	for _, t := range incoming {
		i, ok := index[t.TransactionHash]
		if !ok {
			index[t.TransactionHash] = len(all)
			all = append(all, t)
			added[t.TransactionHash] = true
			continue
		}
		if i < held {
			replaced[t.TransactionHash] = true
		}
		all[i] = t
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp > all[j].Timestamp
	})

	if len(all) > MaxTrades {
		res.Evicted = len(all) - MaxTrades
		all = all[:MaxTrades:MaxTrades]
	}
	res.Total = len(all)

	// Added and Replaced only count trades that survived the bound.
	for _, t := range all {
		switch {
		case added[t.TransactionHash]:
			res.Added++
		case replaced[t.TransactionHash]:
			res.Replaced++
		}
	}

	return all, res
}

// Accumulator holds the bounded, deduplicated, time-ordered trade history.
// It is not safe for concurrent use; a single owner drives Merge and hands
// out snapshots to readers.
type Accumulator struct {
	trades []Trade
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Merge applies an incoming batch and reports what changed.
func (a *Accumulator) Merge(incoming []Trade) MergeResult {
	merged, res := merge(a.trades, incoming)
	a.trades = merged
	return res
}

// Snapshot returns the current trades, most recent first.
// Merge always allocates a new slice, so callers may keep the snapshot
// across later merges as long as they do not modify it.
func (a *Accumulator) Snapshot() []Trade {
	return a.trades
}

// Len returns the number of trades held.
func (a *Accumulator) Len() int {
	return len(a.trades)
}
