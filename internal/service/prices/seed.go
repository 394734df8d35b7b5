package prices

import "strings"

// builtinSymbols - встроенная таблица символ -> CoinGecko id.
// Суффиксы _POLYGON/_BSC/... - обёрнутые и мостовые варианты в других сетях.
var builtinSymbols = map[string]string{
	"ETH":   "ethereum",
	"BTC":   "bitcoin",
	"MATIC": "polygon-pos",
	"SOL":   "solana",
	"AVAX":  "avalanche-2",
	"USDT":  "tether",
	"USDC":  "usd-coin",
	"BNB":   "binancecoin",
	"DAI":   "dai",
	"LINK":  "chainlink",
	"LTC":   "litecoin",
	"BCH":   "bitcoin-cash",
	"DOT":   "polkadot",
	"ADA":   "cardano",
	"XRP":   "ripple",
	"UNI":   "uniswap",
	"AAVE":  "aave",
	"WBTC":  "wrapped-bitcoin",
	"FTM":   "fantom",
	"SUSHI": "sushi",
	"WETH":  "weth",

	"WETH_POLYGON":  "weth",
	"WETH_ARBITRUM": "weth",
	"WETH_OPTIMISM": "weth",
	"WETH_BSC":      "weth",
	"WBTC_POLYGON":  "wrapped-bitcoin",
	"WBTC_ARBITRUM": "wrapped-bitcoin",
	"WBTC_OPTIMISM": "wrapped-bitcoin",
	"USDC_POLYGON":  "usd-coin",
	"USDC_SOLANA":   "usd-coin",
	"USDC_BSC":      "usd-coin",
	"USDT_POLYGON":  "tether",
	"USDT_SOLANA":   "tether",
	"USDT_BSC":      "tether",
	"WBNB":          "wbnb",
	"WBNB_BSC":      "wbnb",
	"WETH.E":        "weth",
	"WBTC.W":        "wrapped-bitcoin",
}

// SeedTable - таблица символов, только для чтения после создания
type SeedTable map[string]string

// NewSeedTable - встроенная таблица + токены из конфигурации (конфигурация главнее).
// Пустой id в конфигурации заменяется символом в нижнем регистре.
func NewSeedTable(overrides map[string]string) SeedTable {
	table := make(SeedTable, len(builtinSymbols)+len(overrides))
	for sym, id := range builtinSymbols {
		table[sym] = id
	}
	for sym, id := range overrides {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		id = strings.TrimSpace(id)
		if id == "" {
			id = strings.ToLower(sym)
		}
		table[sym] = id
	}
	return table
}

func (t SeedTable) Lookup(symbol string) (string, bool) {
	id, ok := t[strings.ToUpper(strings.TrimSpace(symbol))]
	return id, ok
}

// BuiltinSymbols - копия встроенной таблицы (для сидирования БД)
func BuiltinSymbols() map[string]string {
	out := make(map[string]string, len(builtinSymbols))
	for k, v := range builtinSymbols {
		out[k] = v
	}
	return out
}
