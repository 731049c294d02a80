package market

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PricePoint is one point of the close-price chart.
type PricePoint struct {
	Timestamp  int64   `json:"timestamp"`
	ClosePrice float64 `json:"closePrice"`
}

// ScatterPoint is one point of the volume against volatility chart.
type ScatterPoint struct {
	Volume          float64 `json:"volume"`
	PriceVolatility float64 `json:"priceVolatility"`
}

// ClosePrices maps each kline to its open time and close price.
func ClosePrices(klines []Kline) []PricePoint {
	out := make([]PricePoint, len(klines))
	for i, k := range klines {
		out[i] = PricePoint{Timestamp: k.OpenTime, ClosePrice: k.Close.InexactFloat64()}
	}
	return out
}

// Volatility returns the high-low range as a percentage of the low. A zero
// low yields zero.
func Volatility(k Kline) decimal.Decimal {
	if k.Low.IsZero() {
		return decimal.Zero
	}
	return k.High.Sub(k.Low).Div(k.Low).Mul(hundred)
}

// VolatilityScatter maps each kline to its volume and volatility.
func VolatilityScatter(klines []Kline) []ScatterPoint {
	out := make([]ScatterPoint, len(klines))
	for i, k := range klines {
		out[i] = ScatterPoint{
			Volume:          k.Volume.InexactFloat64(),
			PriceVolatility: Volatility(k).InexactFloat64(),
		}
	}
	return out
}

// Summary describes a close-price series.
type Summary struct {
	Points int     `json:"points"`
	Latest float64 `json:"latest"`
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
}

// Summarize returns the latest, lowest and highest close of points.
func Summarize(points []PricePoint) Summary {
	s := Summary{Points: len(points)}
	for i, p := range points {
		if i == 0 || p.ClosePrice < s.Low {
			s.Low = p.ClosePrice
		}
		if i == 0 || p.ClosePrice > s.High {
			s.High = p.ClosePrice
		}
		s.Latest = p.ClosePrice
	}
	return s
}
