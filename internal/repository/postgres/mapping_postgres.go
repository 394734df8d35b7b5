package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MappingRepo - репозиторий сопоставлений токенов с CoinGecko id (таблица price_mappings).
type MappingRepo struct {
	db *pgxpool.Pool
}

func NewMappingRepository(db *pgxpool.Pool) *MappingRepo {
	return &MappingRepo{db: db}
}

const mappingColumns = `id, COALESCE(symbol, ''), COALESCE(network, ''), COALESCE(contract_address, ''),
	coingecko_id, source, created_at`

// FindByContract - сопоставление по контракту; пустой network означает любую сеть
func (r *MappingRepo) FindByContract(ctx context.Context, contract, network string) (domain.CanonicalMapping, error) {
	query := `SELECT ` + mappingColumns + `
		FROM price_mappings
		WHERE contract_address = $1
		  AND ($2::text = '' OR network = $2::text)
		ORDER BY id
		LIMIT 1`
	return r.queryOne(ctx, query, contract, network)
}

// FindBySymbol - сопоставление по символу без контракта
func (r *MappingRepo) FindBySymbol(ctx context.Context, symbol, network string) (domain.CanonicalMapping, error) {
	query := `SELECT ` + mappingColumns + `
		FROM price_mappings
		WHERE symbol = $1 AND contract_address IS NULL
		  AND COALESCE(network, '') = $2`
	return r.queryOne(ctx, query, symbol, network)
}

func (r *MappingRepo) GetByID(ctx context.Context, id int64) (domain.CanonicalMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM price_mappings WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

// List - последние записи (новые сверху), опционально по символу
func (r *MappingRepo) List(ctx context.Context, symbol string, limit int) ([]domain.CanonicalMapping, error) {
	query := `SELECT ` + mappingColumns + `
		FROM price_mappings
		WHERE ($1::text = '' OR symbol = $1::text)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	rows, err := r.db.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	defer rows.Close()

	var out []domain.CanonicalMapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Create - вставка новой записи; конфликт ключа -> ErrDuplicate
func (r *MappingRepo) Create(ctx context.Context, m domain.CanonicalMapping) (domain.CanonicalMapping, error) {
	query := `
		INSERT INTO price_mappings (symbol, network, contract_address, coingecko_id, source, created_at)
		VALUES (NULLIF($1, ''), NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6)
		RETURNING id, created_at`
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRow(ctx, query, m.Symbol, m.Network, m.ContractAddress, m.CanonicalID, string(m.Source), m.CreatedAt).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.CanonicalMapping{}, repository.ErrDuplicate
		}
		return domain.CanonicalMapping{}, fmt.Errorf("create mapping: %w", err)
	}
	return m, nil
}

// Update - перезапись полей записи по id
func (r *MappingRepo) Update(ctx context.Context, m domain.CanonicalMapping) (domain.CanonicalMapping, error) {
	query := `
		UPDATE price_mappings
		SET symbol = NULLIF($2, ''), network = NULLIF($3, ''), contract_address = NULLIF($4, ''),
		    coingecko_id = $5, source = $6
		WHERE id = $1
		RETURNING created_at`
	err := r.db.QueryRow(ctx, query, m.ID, m.Symbol, m.Network, m.ContractAddress, m.CanonicalID, string(m.Source)).
		Scan(&m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CanonicalMapping{}, repository.ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.CanonicalMapping{}, repository.ErrDuplicate
		}
		return domain.CanonicalMapping{}, fmt.Errorf("update mapping: %w", err)
	}
	return m, nil
}

func (r *MappingRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM price_mappings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete mapping: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Upsert - идемпотентная запись по ключу (контракт, сеть) или (символ, сеть).
// Существующая строка обновляется только если поменялся coingecko_id.
func (r *MappingRepo) Upsert(ctx context.Context, m domain.CanonicalMapping) (domain.CanonicalMapping, repository.UpsertOutcome, error) {
	const contractQuery = `
		INSERT INTO price_mappings (symbol, network, contract_address, coingecko_id, source, created_at)
		VALUES (NULLIF($1, ''), NULLIF($2, ''), $3, $4, $5, $6)
		ON CONFLICT (contract_address, (COALESCE(network, ''))) WHERE contract_address IS NOT NULL
		DO UPDATE SET coingecko_id = EXCLUDED.coingecko_id,
		              source = EXCLUDED.source,
		              symbol = COALESCE(EXCLUDED.symbol, price_mappings.symbol)
		WHERE price_mappings.coingecko_id IS DISTINCT FROM EXCLUDED.coingecko_id
		RETURNING id, created_at, (xmax = 0) AS inserted`

	const symbolQuery = `
		INSERT INTO price_mappings (symbol, network, contract_address, coingecko_id, source, created_at)
		VALUES ($1, NULLIF($2, ''), NULL, $3, $4, $5)
		ON CONFLICT (symbol, (COALESCE(network, ''))) WHERE contract_address IS NULL
		DO UPDATE SET coingecko_id = EXCLUDED.coingecko_id,
		              source = EXCLUDED.source
		WHERE price_mappings.coingecko_id IS DISTINCT FROM EXCLUDED.coingecko_id
		RETURNING id, created_at, (xmax = 0) AS inserted`

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	query, args := symbolQuery, []any{m.Symbol, m.Network, m.CanonicalID, string(m.Source), m.CreatedAt}
	if m.IsContract() {
		query = contractQuery
		args = []any{m.Symbol, m.Network, m.ContractAddress, m.CanonicalID, string(m.Source), m.CreatedAt}
	}

	var inserted bool
	err := r.db.QueryRow(ctx, query, args...).Scan(&m.ID, &m.CreatedAt, &inserted)
	if errors.Is(err, pgx.ErrNoRows) {
		// конфликт без изменений: строка уже такая
		var existing domain.CanonicalMapping
		if m.IsContract() {
			existing, err = r.queryOne(ctx, `SELECT `+mappingColumns+`
				FROM price_mappings
				WHERE contract_address = $1 AND COALESCE(network, '') = $2`, m.ContractAddress, m.Network)
		} else {
			existing, err = r.FindBySymbol(ctx, m.Symbol, m.Network)
		}
		if err != nil {
			return domain.CanonicalMapping{}, repository.Unchanged, fmt.Errorf("reload mapping: %w", err)
		}
		return existing, repository.Unchanged, nil
	}
	if err != nil {
		return domain.CanonicalMapping{}, repository.Unchanged, fmt.Errorf("upsert mapping: %w", err)
	}
	if inserted {
		return m, repository.Inserted, nil
	}
	return m, repository.Updated, nil
}

func (r *MappingRepo) queryOne(ctx context.Context, query string, args ...any) (domain.CanonicalMapping, error) {
	m, err := scanMapping(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CanonicalMapping{}, repository.ErrNotFound
		}
		return domain.CanonicalMapping{}, fmt.Errorf("query mapping: %w", err)
	}
	return m, nil
}

func scanMapping(row pgx.Row) (domain.CanonicalMapping, error) {
	var (
		m      domain.CanonicalMapping
		source string
	)
	err := row.Scan(&m.ID, &m.Symbol, &m.Network, &m.ContractAddress, &m.CanonicalID, &source, &m.CreatedAt)
	m.Source = domain.MappingSource(source)
	return m, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
