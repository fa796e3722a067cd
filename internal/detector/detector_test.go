package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyinsider/tradeflow/internal/store"
)

func TestClassify(t *testing.T) {
	d := NewDetector(1000, 10000)

	tests := []struct {
		name  string
		size  float64
		price float64
		want  Tier
	}{
		{"small", 100, 0.5, TierNormal},
		{"just under large", 1998, 0.5, TierNormal},
		{"exactly large", 2000, 0.5, TierLarge},
		{"large", 5000, 0.9, TierLarge},
		{"exactly whale", 20000, 0.5, TierWhale},
		{"whale", 100000, 0.75, TierWhale},
		{"zero", 0, 0, TierNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trade := store.Trade{TransactionHash: tt.name, Size: tt.size, Price: tt.price}
			assert.Equal(t, tt.want, d.Classify(trade))
		})
	}
}

func TestClassify_InvertedThresholds(t *testing.T) {
	d := NewDetector(50000, 10000)

	assert.Equal(t, TierWhale, d.Classify(store.Trade{Size: 20000, Price: 1}))
	assert.Equal(t, TierNormal, d.Classify(store.Trade{Size: 5000, Price: 1}))
}

func TestWhales(t *testing.T) {
	d := NewDetector(1000, 10000)
	trades := []store.Trade{
		{TransactionHash: "w1", Size: 20000, Price: 1},
		{TransactionHash: "n1", Size: 10, Price: 1},
		{TransactionHash: "w2", Size: 15000, Price: 1},
		{TransactionHash: "w3", Size: 12000, Price: 1},
	}

	whales := d.Whales(trades, 2)
	require.Len(t, whales, 2)
	assert.Equal(t, "w1", whales[0].TransactionHash)
	assert.Equal(t, "w2", whales[1].TransactionHash)

	assert.Empty(t, d.Whales(trades[1:2], 5))
}

func TestTier_String(t *testing.T) {
	assert.Equal(t, "WHALE", TierWhale.String())
	assert.Equal(t, "LARGE", TierLarge.String())
	assert.Equal(t, "NORMAL", TierNormal.String())
}
