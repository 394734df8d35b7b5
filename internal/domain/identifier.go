package domain

import "strings"

// Identifier - то, по чему ищут цену: символ токена или пара (сеть, контракт)
type Identifier struct {
	Symbol   string
	Network  string
	Contract string
}

func SymbolIdentifier(symbol string) Identifier {
	return Identifier{Symbol: strings.ToUpper(strings.TrimSpace(symbol))}
}

func ContractIdentifier(network, contract string) Identifier {
	return Identifier{
		Network:  strings.ToLower(strings.TrimSpace(network)),
		Contract: strings.ToLower(strings.TrimSpace(contract)),
	}
}

func (id Identifier) IsContract() bool { return id.Contract != "" }

func (id Identifier) String() string {
	if !id.IsContract() {
		return id.Symbol
	}
	if id.Network == "" {
		return id.Contract
	}
	return id.Network + ":" + id.Contract
}

// ParseIdentifier - разбирает "BTC", "0xabc…" или "polygon:0xabc…".
func ParseIdentifier(raw string) (Identifier, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identifier{}, false
	}
	if network, addr, ok := strings.Cut(raw, ":"); ok {
		if network == "" || !IsContractAddress(addr) {
			return Identifier{}, false
		}
		return ContractIdentifier(network, addr), true
	}
	if IsContractAddress(raw) {
		return ContractIdentifier("", raw), true
	}
	if strings.ContainsAny(raw, " \t\n/") {
		return Identifier{}, false
	}
	return SymbolIdentifier(raw), true
}

// IsContractAddress - эвристика для EVM-адресов: префикс 0x и длина от 40 символов
func IsContractAddress(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 40 || strings.ContainsAny(s, " \t\n") {
		return false
	}
	return strings.HasPrefix(strings.ToLower(s), "0x")
}
