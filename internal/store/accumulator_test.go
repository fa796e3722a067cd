package store

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trade(hash string, ts int64, size, price float64) Trade {
	return Trade{
		TransactionHash: hash,
		Side:            SideBuy,
		Size:            size,
		Price:           price,
		Timestamp:       ts,
	}
}

func hashes(trades []Trade) []string {
	out := make([]string, len(trades))
	for i, t := range trades {
		out[i] = t.TransactionHash
	}
	return out
}

func TestMerge_IntoEmpty(t *testing.T) {
	a := trade("A", 100, 10, 2)
	b := trade("B", 200, 1, 0.5)

	got := Merge(nil, []Trade{a, b})

	assert.Equal(t, []string{"B", "A"}, hashes(got))
}

func TestMerge_UpsertWins(t *testing.T) {
	existing := Merge(nil, []Trade{trade("A", 100, 10, 2), trade("B", 200, 1, 0.5)})

	updated := trade("A", 100, 10, 3)
	got := Merge(existing, []Trade{updated})

	require.Len(t, got, 2)
	assert.Equal(t, []string{"B", "A"}, hashes(got))
	assert.Equal(t, 3.0, got[1].Price)
}

func TestMerge_UpsertMovesOnTimestampChange(t *testing.T) {
	existing := Merge(nil, []Trade{trade("A", 100, 1, 1), trade("B", 200, 1, 1)})

	got := Merge(existing, []Trade{trade("A", 300, 1, 1)})

	assert.Equal(t, []string{"A", "B"}, hashes(got))
	assert.Equal(t, int64(300), got[0].Timestamp)
}

func TestMerge_LastWriteWinsWithinBatch(t *testing.T) {
	got := Merge(nil, []Trade{trade("A", 100, 1, 0.1), trade("A", 100, 1, 0.9)})

	require.Len(t, got, 1)
	assert.Equal(t, 0.9, got[0].Price)
}

func TestMerge_Idempotent(t *testing.T) {
	base := Merge(nil, []Trade{trade("A", 100, 1, 1), trade("B", 50, 1, 1)})
	batch := []Trade{trade("C", 75, 1, 1), trade("A", 100, 2, 1), trade("D", 75, 1, 1)}

	once := Merge(base, batch)
	twice := Merge(once, batch)

	assert.Equal(t, once, twice)
}

func TestMerge_EmptyIncoming(t *testing.T) {
	existing := []Trade{trade("A", 100, 1, 1), trade("B", 200, 1, 1)}

	got := Merge(existing, nil)

	assert.Equal(t, []string{"B", "A"}, hashes(got))
}

func TestMerge_BoundEvictsOldest(t *testing.T) {
	batch := make([]Trade, 0, MaxTrades+1)
	for i := 0; i <= MaxTrades; i++ {
		batch = append(batch, trade(fmt.Sprintf("tx-%d", i), int64(1000+i), 1, 1))
	}

	got := Merge(nil, batch)

	require.Len(t, got, MaxTrades)
	for _, tr := range got {
		assert.NotEqual(t, "tx-0", tr.TransactionHash)
	}
	assert.Equal(t, fmt.Sprintf("tx-%d", MaxTrades), got[0].TransactionHash)
}

func TestMerge_BoundAcrossMerges(t *testing.T) {
	var state []Trade
	for round := 0; round < 5; round++ {
		batch := make([]Trade, 0, 400)
		for i := 0; i < 400; i++ {
			batch = append(batch, trade(fmt.Sprintf("r%d-%d", round, i), int64(round*400+i), 1, 1))
		}
		state = Merge(state, batch)
		assert.LessOrEqual(t, len(state), MaxTrades)
	}
	assert.Len(t, state, MaxTrades)
}

func TestMerge_SortedDescending(t *testing.T) {
	got := Merge(
		[]Trade{trade("A", 5, 1, 1), trade("B", 50, 1, 1)},
		[]Trade{trade("C", 20, 1, 1), trade("D", 500, 1, 1), trade("E", 1, 1, 1)},
	)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Timestamp, got[i].Timestamp)
	}
}

func TestMerge_StableTieBreak(t *testing.T) {
	existing := []Trade{trade("X", 100, 1, 1), trade("Y", 100, 1, 1)}

	got := Merge(existing, []Trade{trade("Z", 100, 1, 1), trade("X", 100, 2, 1)})

	// X keeps its original slot even though it was rewritten.
	assert.Equal(t, []string{"X", "Y", "Z"}, hashes(got))
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	existing := []Trade{trade("A", 1, 1, 1), trade("B", 2, 1, 1)}
	incoming := []Trade{trade("A", 3, 1, 1)}

	_ = Merge(existing, incoming)

	assert.Equal(t, []string{"A", "B"}, hashes(existing))
	assert.Equal(t, int64(1), existing[0].Timestamp)
}

func TestAccumulator_MergeResult(t *testing.T) {
	acc := NewAccumulator()

	res := acc.Merge([]Trade{trade("A", 1, 1, 1), trade("B", 2, 1, 1)})
	assert.Equal(t, MergeResult{Received: 2, Added: 2, Total: 2}, res)

	res = acc.Merge([]Trade{trade("A", 1, 2, 1), trade("A", 1, 3, 1), trade("C", 3, 1, 1)})
	assert.Equal(t, MergeResult{Received: 3, Added: 1, Replaced: 1, Total: 3}, res)
	assert.Equal(t, 3, acc.Len())
	assert.Equal(t, []string{"C", "B", "A"}, hashes(acc.Snapshot()))
}

func TestAccumulator_SnapshotSurvivesMerge(t *testing.T) {
	acc := NewAccumulator()
	acc.Merge([]Trade{trade("A", 1, 1, 1)})
	snap := acc.Snapshot()

	acc.Merge([]Trade{trade("B", 2, 1, 1)})

	assert.Equal(t, []string{"A"}, hashes(snap))
	assert.Equal(t, []string{"B", "A"}, hashes(acc.Snapshot()))
}

func TestAccumulator_Evicted(t *testing.T) {
	acc := NewAccumulator()
	batch := make([]Trade, 0, MaxTrades+5)
	for i := 0; i < MaxTrades+5; i++ {
		batch = append(batch, trade(fmt.Sprintf("tx-%d", i), int64(i), 1, 1))
	}

	res := acc.Merge(batch)

	assert.Equal(t, 5, res.Evicted)
	assert.Equal(t, MaxTrades, res.Total)
}

func TestAccumulator_CountsOnlyHeldTrades(t *testing.T) {
	acc := NewAccumulator()
	full := make([]Trade, 0, MaxTrades)
	for i := 0; i < MaxTrades; i++ {
		full = append(full, trade(fmt.Sprintf("tx-%d", i), int64(i+10), 1, 1))
	}
	acc.Merge(full)

	// Older than everything held: evicted in the same merge.
	res := acc.Merge([]Trade{trade("old", 1, 1, 1)})
	assert.Equal(t, MergeResult{Received: 1, Evicted: 1, Total: MaxTrades}, res)
	assert.NotContains(t, hashes(acc.Snapshot()), "old")

	// tx-0 is the oldest held trade; the newer arrival pushes its update out.
	res = acc.Merge([]Trade{trade("tx-0", 10, 2, 1), trade("new", 5000, 1, 1)})
	assert.Equal(t, MergeResult{Received: 2, Added: 1, Evicted: 1, Total: MaxTrades}, res)
	assert.NotContains(t, hashes(acc.Snapshot()), "tx-0")
}

func TestTrade_Notional(t *testing.T) {
	assert.True(t, trade("A", 1, 10, 2).Notional().Equal(decimal.NewFromInt(20)))
	assert.True(t, trade("B", 1, 1, 0.5).Notional().Equal(decimal.RequireFromString("0.5")))
	assert.True(t, trade("C", 1, 50, 0.1).Notional().Equal(decimal.NewFromInt(5)))
}

func TestTrade_DisplayName(t *testing.T) {
	assert.Equal(t, "alias", Trade{Pseudonym: "alias", Name: "name"}.DisplayName())
	assert.Equal(t, "name", Trade{Name: "name"}.DisplayName())
	assert.Equal(t, "Anonymous", Trade{}.DisplayName())
}

func TestSide_Valid(t *testing.T) {
	assert.True(t, SideBuy.Valid())
	assert.True(t, SideSell.Valid())
	assert.False(t, Side("HOLD").Valid())
	assert.False(t, Side("").Valid())
}
