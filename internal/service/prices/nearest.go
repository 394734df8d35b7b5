package prices

import (
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
	"github.com/shopspring/decimal"
)

// nearestPrice - точка ряда, ближайшая к targetMs; при равенстве берём более раннюю
func nearestPrice(series []domain.SeriesPoint, targetMs int64) (decimal.Decimal, bool) {
	if len(series) == 0 {
		return decimal.Decimal{}, false
	}
	best := series[0]
	bestDist := absDiff(best.TimestampMs, targetMs)
	for _, p := range series[1:] {
		d := absDiff(p.TimestampMs, targetMs)
		if d < bestDist || (d == bestDist && p.TimestampMs < best.TimestampMs) {
			best, bestDist = p, d
		}
	}
	return best.Price, true
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
