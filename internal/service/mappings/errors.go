package mappings

import (
	"errors"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
)

var (
	ErrMappingNotFound = errors.New("price mapping not found")
	ErrMappingExists   = errors.New("price mapping already exists")
	ErrInvalidMapping  = domain.ErrInvalidMapping
)
