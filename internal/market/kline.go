package market

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// klineFields is the length of a kline array as returned by the exchange.
const klineFields = 12

// Kline is one candlestick. On the wire it is a positional array:
// [openTime, open, high, low, close, volume, closeTime, quoteVolume,
// trades, takerBuyBase, takerBuyQuote, ignore] with prices as strings.
type Kline struct {
	OpenTime      int64
	Open          decimal.Decimal
	High          decimal.Decimal
	Low           decimal.Decimal
	Close         decimal.Decimal
	Volume        decimal.Decimal
	CloseTime     int64
	QuoteVolume   decimal.Decimal
	Trades        int64
	TakerBuyBase  decimal.Decimal
	TakerBuyQuote decimal.Decimal
}

// UnmarshalJSON decodes the positional array form.
func (k *Kline) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return eris.Wrap(err, "market: kline is not an array")
	}
	if len(raw) < klineFields {
		return eris.Errorf("market: kline has %d fields, want %d", len(raw), klineFields)
	}

	targets := []any{
		&k.OpenTime, &k.Open, &k.High, &k.Low, &k.Close, &k.Volume,
		&k.CloseTime, &k.QuoteVolume, &k.Trades, &k.TakerBuyBase, &k.TakerBuyQuote,
	}
	for i, target := range targets {
		if err := json.Unmarshal(raw[i], target); err != nil {
			return eris.Wrapf(err, "market: kline field %d", i)
		}
	}
	return nil
}

// MarshalJSON encodes the positional array form.
func (k Kline) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{
		k.OpenTime, k.Open.String(), k.High.String(), k.Low.String(), k.Close.String(),
		k.Volume.String(), k.CloseTime, k.QuoteVolume.String(), k.Trades,
		k.TakerBuyBase.String(), k.TakerBuyQuote.String(), "0",
	})
}
