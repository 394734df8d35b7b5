package domain

import (
	"errors"
	"strings"
	"time"
)

// MappingSource - происхождение записи сопоставления
type MappingSource string

const (
	SourceSeed       MappingSource = "seed"
	SourceManual     MappingSource = "manual"
	SourceDiscovered MappingSource = "discovered-by-contract"
)

var ErrInvalidMapping = errors.New("invalid price mapping")

// CanonicalMapping - связь токена (символ или контракт в сети) с идентификатором CoinGecko.
// Пустая строка в Symbol/Network/ContractAddress означает "не задано".
type CanonicalMapping struct {
	ID              int64         `json:"id"`
	Symbol          string        `json:"symbol,omitempty"`
	Network         string        `json:"network,omitempty"`
	ContractAddress string        `json:"contract_address,omitempty"`
	CanonicalID     string        `json:"coingecko_id"`
	Source          MappingSource `json:"source"`
	CreatedAt       time.Time     `json:"created_at"`
}

// Normalize - символ в верхнем регистре, контракт и сеть в нижнем
func (m CanonicalMapping) Normalize() CanonicalMapping {
	m.Symbol = strings.ToUpper(strings.TrimSpace(m.Symbol))
	m.Network = strings.ToLower(strings.TrimSpace(m.Network))
	m.ContractAddress = strings.ToLower(strings.TrimSpace(m.ContractAddress))
	m.CanonicalID = strings.TrimSpace(m.CanonicalID)
	return m
}

// Validate - у записи должен быть canonical id и хотя бы один ключ поиска
func (m CanonicalMapping) Validate() error {
	if m.CanonicalID == "" {
		return errors.Join(ErrInvalidMapping, errors.New("coingecko_id is required"))
	}
	if m.Symbol == "" && m.ContractAddress == "" {
		return errors.Join(ErrInvalidMapping, errors.New("symbol or contract_address is required"))
	}
	return nil
}

// IsContract - основной ключ записи: контракт (иначе символ)
func (m CanonicalMapping) IsContract() bool {
	return m.ContractAddress != ""
}
