package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// formatPrice - сообщение с ценой
func formatPrice(p PriceDTO) string {
	cur := strings.ToUpper(p.Currency)
	if p.Timestamp.IsZero() {
		return fmt.Sprintf("%s | Текущая цена: %s %s", p.ID, humanPrice(p.Price), cur)
	}
	return fmt.Sprintf("%s | Цена на %s: %s %s",
		p.ID,
		p.Timestamp.UTC().Format(time.RFC3339),
		humanPrice(p.Price),
		cur,
	)
}

// humanPrice - два знака после запятой; мелкие цены без потери значащих цифр
func humanPrice(v decimal.Decimal) string {
	if v.Abs().LessThan(decimal.NewFromInt(1)) {
		return v.Round(8).String()
	}
	return v.StringFixed(2)
}
