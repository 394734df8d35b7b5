package prices

import (
	"context"
	"errors"
	"log/slog"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/infra/metrics"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/repository"
	"golang.org/x/sync/singleflight"
)

// Resolver - символ или (сеть, контракт) -> CoinGecko id
type Resolver struct {
	seed      SeedTable
	aliases   *AliasTable
	platforms []string
	mappings  MappingStore
	provider  Provider
	group     singleflight.Group
	logger    *slog.Logger
}

func NewResolver(seed SeedTable, aliases *AliasTable, platforms []string, mappings MappingStore, provider Provider, logger *slog.Logger) *Resolver {
	return &Resolver{
		seed:      seed,
		aliases:   aliases,
		platforms: platforms,
		mappings:  mappings,
		provider:  provider,
		logger:    logger,
	}
}

// Resolve - canonical id; false, если идентификатор не удалось сопоставить.
// Ошибок наружу не отдаёт.
func (r *Resolver) Resolve(ctx context.Context, id domain.Identifier) (string, bool) {
	if id.IsContract() {
		return r.resolveContract(ctx, id)
	}
	return r.resolveSymbol(ctx, id.Symbol)
}

func (r *Resolver) resolveSymbol(ctx context.Context, symbol string) (string, bool) {
	if canonical, ok := r.seed.Lookup(symbol); ok {
		metrics.Resolution("symbol", "seed")
		return canonical, true
	}
	// записи, добавленные вручную через админку
	m, err := r.mappings.FindBySymbol(ctx, symbol, "")
	if err == nil {
		metrics.Resolution("symbol", "store")
		return m.CanonicalID, true
	}
	if !errors.Is(err, repository.ErrNotFound) {
		r.logger.Warn("symbol mapping lookup failed", "symbol", symbol, "err", err)
	}
	metrics.Resolution("symbol", "unresolved")
	return "", false
}

func (r *Resolver) resolveContract(ctx context.Context, id domain.Identifier) (string, bool) {
	if canonical, ok := r.storedContract(ctx, id.Contract, id.Network); ok {
		return canonical, true
	}
	// контракт мог быть найден раньше на другой платформе
	if id.Network != "" {
		if canonical, ok := r.storedContract(ctx, id.Contract, ""); ok {
			return canonical, true
		}
	}

	res := r.discoverOnce(ctx, id)
	// перебор оборвался на чужом ctx: пробуем ещё раз со своим
	if res.interrupted && ctx.Err() == nil {
		res = r.discoverOnce(ctx, id)
	}
	if res.canonical == "" {
		metrics.Resolution("contract", "unresolved")
		return "", false
	}
	metrics.Resolution("contract", "discovered")
	return res.canonical, true
}

func (r *Resolver) storedContract(ctx context.Context, contract, network string) (string, bool) {
	m, err := r.mappings.FindByContract(ctx, contract, network)
	if err == nil {
		metrics.Resolution("contract", "store")
		return m.CanonicalID, true
	}
	if !errors.Is(err, repository.ErrNotFound) {
		r.logger.Warn("contract mapping lookup failed", "contract", contract, "network", network, "err", err)
	}
	return "", false
}

type discovery struct {
	canonical string
	// перебор не закончен: отменён ctx или rate gate не пустил
	interrupted bool
}

// discoverOnce - одновременные запросы одного контракта идут в CoinGecko один раз
func (r *Resolver) discoverOnce(ctx context.Context, id domain.Identifier) discovery {
	v, _, _ := r.group.Do(id.String(), func() (any, error) {
		return r.discover(ctx, id), nil
	})
	res, _ := v.(discovery)
	return res
}

// discover - перебор платформ, первая найденная сохраняется в БД
func (r *Resolver) discover(ctx context.Context, id domain.Identifier) discovery {
	for _, platform := range r.probeOrder(id.Network) {
		canonical, err := r.provider.ContractLookup(ctx, platform, id.Contract)
		if err != nil {
			// 404 - обычный случай: контракта нет на этой платформе
			r.logger.Debug("contract lookup miss", "platform", platform, "contract", id.Contract, "err", err)
			if ctx.Err() != nil || errors.Is(err, domain.ErrUpstreamSkipped) {
				return discovery{interrupted: true}
			}
			continue
		}

		mapping := domain.CanonicalMapping{
			Network:         r.aliases.Network(platform),
			ContractAddress: id.Contract,
			CanonicalID:     canonical,
			Source:          domain.SourceDiscovered,
		}
		// найденное сохраняем, даже если вызывающий уже ушёл
		if _, outcome, err := r.mappings.Upsert(context.WithoutCancel(ctx), mapping); err != nil {
			r.logger.Warn("persist discovered mapping failed", "contract", id.Contract, "err", err)
		} else {
			r.logger.Info("contract mapping discovered",
				"contract", id.Contract, "network", mapping.Network, "coingecko_id", canonical, "outcome", outcome.String())
		}
		return discovery{canonical: canonical}
	}
	r.logger.Debug("contract not listed on any platform", "contract", id.Contract)
	return discovery{}
}

// probeOrder - платформа объявленной сети первой, затем остальные по приоритету
func (r *Resolver) probeOrder(network string) []string {
	first, ok := r.aliases.Platform(network, r.platforms)
	if !ok {
		return r.platforms
	}
	order := make([]string, 0, len(r.platforms))
	order = append(order, first)
	for _, p := range r.platforms {
		if p != first {
			order = append(order, p)
		}
	}
	return order
}
