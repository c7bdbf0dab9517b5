package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReference_Format(t *testing.T) {
	now := time.Unix(1756400000, 0)

	ref, err := NewReference(now)

	require.NoError(t, err)
	parts := strings.Split(ref, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, "TXN", parts[0])
	assert.Equal(t, "1756400000", parts[1])
	assert.Len(t, parts[2], 12)
}

func TestNewReference_UniqueWithinSameSecond(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool, 1000)

	for range 1000 {
		ref, err := NewReference(now)
		require.NoError(t, err)
		require.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}

func TestMetadataSerializedShape(t *testing.T) {
	tests := []struct {
		name string
		meta Metadata
		want string
	}{
		{
			name: "buy",
			meta: BuyMetadata{
				NairaAmount:  decimal.NewFromInt(50000),
				TotalDebited: decimal.NewFromInt(50500),
			},
			want: `{"naira_amount":"50000","total_debited":"50500"}`,
		},
		{
			name: "sell",
			meta: SellMetadata{
				NairaValue:     decimal.NewFromInt(8500000),
				CreditReceived: decimal.NewFromInt(8415000),
			},
			want: `{"naira_value":"8500000","credit_received":"8415000"}`,
		},
		{
			name: "fee",
			meta: FeeMetadata{
				ParentTransaction: "TXN_1756400000_a1b2c3d4e5f6",
				Description:       "Trading fee for BTC purchase",
			},
			want: `{"parent_transaction":"TXN_1756400000_a1b2c3d4e5f6","description":"Trading fee for BTC purchase"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(tc.meta)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(got))
		})
	}
}

func TestNormalizeAsset(t *testing.T) {
	assert.Equal(t, AssetBTC, NormalizeAsset("btc"))
	assert.Equal(t, AssetBTC, NormalizeAsset(" BTC "))
	assert.Equal(t, AssetUSDT, NormalizeAsset("usdt"))
	assert.Equal(t, Asset("DOGE"), NormalizeAsset("doge"))
}
