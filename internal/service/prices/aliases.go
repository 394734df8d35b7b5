package prices

import "strings"

// builtinAliases - slug платформы CoinGecko -> имя сети у нас
var builtinAliases = map[string]string{
	"polygon-pos":         "polygon",
	"binance-smart-chain": "bsc",
	"arbitrum-one":        "arbitrum",
	"avalanche":           "avalanche",
	"base":                "base",
	"ethereum":            "ethereum",
	"solana":              "solana",
}

// AliasTable - перевод slug платформы в имя сети и обратно
type AliasTable struct {
	aliases  map[string]string
	networks map[string]struct{}
}

// NewAliasTable - алиасы из конфигурации перекрывают встроенные.
// networks - сети, которые знает остальная система.
func NewAliasTable(overrides map[string]string, networks []string) *AliasTable {
	t := &AliasTable{
		aliases:  make(map[string]string, len(builtinAliases)+len(overrides)),
		networks: make(map[string]struct{}, len(networks)),
	}
	for slug, network := range builtinAliases {
		t.aliases[slug] = network
	}
	for slug, network := range overrides {
		t.aliases[strings.ToLower(strings.TrimSpace(slug))] = strings.ToLower(strings.TrimSpace(network))
	}
	for _, n := range networks {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			t.networks[n] = struct{}{}
		}
	}
	return t
}

func (t *AliasTable) known(network string) bool {
	_, ok := t.networks[network]
	return ok
}

// Network - имя сети для slug платформы.
// Порядок: алиас (если сеть известна), сам slug, первая часть slug до "-",
// затем алиас как есть, иначе исходный slug.
func (t *AliasTable) Network(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	candidate, hasAlias := t.aliases[slug]
	if hasAlias && t.known(candidate) {
		return candidate
	}
	if t.known(slug) {
		return slug
	}
	if head, _, ok := strings.Cut(slug, "-"); ok && t.known(head) {
		return head
	}
	if hasAlias && candidate != "" {
		return candidate
	}
	return slug
}

// Platform - slug платформы для объявленной сети, если он есть в списке платформ
func (t *AliasTable) Platform(network string, platforms []string) (string, bool) {
	network = strings.ToLower(strings.TrimSpace(network))
	if network == "" {
		return "", false
	}
	for _, p := range platforms {
		if p == network || t.Network(p) == network {
			return p, true
		}
	}
	return "", false
}
