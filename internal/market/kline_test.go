package market

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleKline = `[1499040000000,"0.01634790","0.80000000","0.01575800","0.01577100","148976.11427815",1499644799999,"2434.19055334",308,"1756.87402397","28.46694368","0"]`

func TestKline_UnmarshalJSON(t *testing.T) {
	var k Kline
	require.NoError(t, json.Unmarshal([]byte(sampleKline), &k))

	assert.Equal(t, int64(1499040000000), k.OpenTime)
	assert.True(t, decimal.RequireFromString("0.0163479").Equal(k.Open))
	assert.True(t, decimal.RequireFromString("0.8").Equal(k.High))
	assert.True(t, decimal.RequireFromString("0.015758").Equal(k.Low))
	assert.True(t, decimal.RequireFromString("0.015771").Equal(k.Close))
	assert.True(t, decimal.RequireFromString("148976.11427815").Equal(k.Volume))
	assert.Equal(t, int64(1499644799999), k.CloseTime)
	assert.Equal(t, int64(308), k.Trades)
	assert.True(t, decimal.RequireFromString("28.46694368").Equal(k.TakerBuyQuote))
}

func TestKline_UnmarshalJSON_Errors(t *testing.T) {
	tests := map[string]string{
		"object":      `{"open":"1"}`,
		"short":       `[1499040000000,"1","2","3","4","5"]`,
		"bad price":   `[1,"abc","2","3","4","5",2,"6",7,"8","9","0"]`,
		"string time": `["soon","1","2","3","4","5",2,"6",7,"8","9","0"]`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			var k Kline
			assert.Error(t, json.Unmarshal([]byte(in), &k))
		})
	}
}

func TestKline_MarshalRoundTrip(t *testing.T) {
	var k Kline
	require.NoError(t, json.Unmarshal([]byte(sampleKline), &k))

	data, err := json.Marshal(k)
	require.NoError(t, err)

	var back Kline
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, k.OpenTime, back.OpenTime)
	assert.True(t, k.Close.Equal(back.Close))
	assert.True(t, k.Volume.Equal(back.Volume))
}
