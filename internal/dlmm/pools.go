// =============================
// File: internal/dlmm/pools.go
// =============================
package dlmm

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/dlmm-lp/internal/blockchain"
	"github.com/rovshanmuradov/dlmm-lp/internal/blockchain/solbc"
	"github.com/rovshanmuradov/dlmm-lp/internal/cache"
)

// PoolLister is what views and handlers need from pool discovery.
type PoolLister interface {
	ListPools(ctx context.Context, limit int) ([]Pool, error)
	GetPool(ctx context.Context, address solana.PublicKey) (*Pool, error)
}

// PoolServiceOptions configures a PoolService.
type PoolServiceOptions struct {
	ProgramID solana.PublicKey
	CacheTTL  time.Duration
	Retries   int
}

// DefaultPoolServiceOptions returns the settings used when none are given.
func DefaultPoolServiceOptions() PoolServiceOptions {
	return PoolServiceOptions{
		ProgramID: DefaultProgramID,
		CacheTTL:  10 * time.Second,
		Retries:   3,
	}
}

// PoolService discovers and decodes DLMM pairs.
type PoolService struct {
	client blockchain.Client
	tokens *solbc.TokenMetadataCache
	cache  cache.Cache
	opts   PoolServiceOptions
	logger *zap.Logger
}

// NewPoolService creates a PoolService. cache may be nil to disable de-duplication.
func NewPoolService(
	client blockchain.Client,
	tokens *solbc.TokenMetadataCache,
	c cache.Cache,
	logger *zap.Logger,
	opts ...PoolServiceOptions,
) *PoolService {
	options := DefaultPoolServiceOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	return &PoolService{
		client: client,
		tokens: tokens,
		cache:  c,
		opts:   options,
		logger: logger.Named("pools"),
	}
}

func (s *PoolService) cacheKey(limit int) string {
	return fmt.Sprintf("pools:%s:%d", s.opts.ProgramID, limit)
}

// ListPools returns up to limit pools ordered by address. Pools whose
// accounts or token metadata cannot be loaded are logged and left out.
func (s *PoolService) ListPools(ctx context.Context, limit int) ([]Pool, error) {
	if limit <= 0 {
		limit = DefaultPoolLimit
	}

	key := s.cacheKey(limit)
	if s.cache != nil && s.opts.CacheTTL > 0 {
		var cached []Pool
		ok, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Debug("Pool cache read failed", zap.Error(err))
		} else if ok {
			s.logger.Debug("Pools served from cache", zap.Int("count", len(cached)))
			return cached, nil
		}
	}

	addresses, err := s.fetchPoolAddresses(ctx)
	if err != nil {
		return nil, err
	}
	if len(addresses) > limit {
		addresses = addresses[:limit]
	}

	results := make([]*Pool, len(addresses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(poolFetchConcurrency)
	for i, addr := range addresses {
		g.Go(func() error {
			pool, err := s.GetPool(gctx, addr)
			if err != nil {
				s.logger.Warn("Skipping pool", zap.String("pool", addr.String()), zap.Error(err))
				return nil
			}
			results[i] = pool
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pools := make([]Pool, 0, len(results))
	for _, p := range results {
		if p != nil {
			pools = append(pools, *p)
		}
	}

	s.logger.Info("Pools loaded",
		zap.Int("requested", len(addresses)),
		zap.Int("loaded", len(pools)))

	if s.cache != nil && s.opts.CacheTTL > 0 {
		if err := s.cache.Set(ctx, key, pools, s.opts.CacheTTL); err != nil {
			s.logger.Debug("Pool cache write failed", zap.Error(err))
		}
	}
	return pools, nil
}

// fetchPoolAddresses lists every pair account of the program, without data.
func (s *PoolService) fetchPoolAddresses(ctx context.Context) ([]solana.PublicKey, error) {
	offset, length := uint64(0), uint64(0)
	opts := &rpc.GetProgramAccountsOpts{
		Commitment: rpc.CommitmentConfirmed,
		Encoding:   solana.EncodingBase64,
		DataSlice:  &rpc.DataSlice{Offset: &offset, Length: &length},
		Filters: []rpc.RPCFilter{{
			Memcmp: &rpc.RPCFilterMemcmp{
				Offset: 0,
				Bytes:  solana.Base58(pairDiscriminator[:]),
			},
		}},
	}

	op := func() (rpc.GetProgramAccountsResult, error) {
		return s.client.GetProgramAccountsWithOpts(ctx, s.opts.ProgramID, opts)
	}
	accounts, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(s.opts.Retries+1)),
		backoff.WithNotify(func(err error, d time.Duration) {
			s.logger.Debug("Retrying pool discovery", zap.Error(err), zap.Duration("in", d))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	addresses := make([]solana.PublicKey, 0, len(accounts))
	for _, acc := range accounts {
		if acc != nil {
			addresses = append(addresses, acc.Pubkey)
		}
	}
	sort.Slice(addresses, func(i, j int) bool {
		return addresses[i].String() < addresses[j].String()
	})
	return addresses, nil
}

// GetPool decodes one pair and resolves both tokens.
func (s *PoolService) GetPool(ctx context.Context, address solana.PublicKey) (*Pool, error) {
	info, err := s.client.GetAccountInfo(ctx, address)
	if err != nil {
		if solbc.IsAccountNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, address)
		}
		return nil, fmt.Errorf("failed to fetch pool %s: %w", address, err)
	}
	if info == nil || info.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, address)
	}

	pair, err := decodePair(info.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", address, err)
	}

	tokenX, err := s.token(ctx, pair.TokenMintX)
	if err != nil {
		return nil, err
	}
	tokenY, err := s.token(ctx, pair.TokenMintY)
	if err != nil {
		return nil, err
	}

	pool := &Pool{
		Address:  address,
		BinStep:  pair.BinStep,
		ActiveID: int32(pair.ActiveID),
		TokenX:   tokenX,
		TokenY:   tokenY,
	}
	if price, ok := PriceFromBinID(pool.ActiveID, pool.BinStep, tokenX.Decimals, tokenY.Decimals); ok {
		pool.Price = &price
	}
	return pool, nil
}

func (s *PoolService) token(ctx context.Context, mint solana.PublicKey) (Token, error) {
	md, err := s.tokens.GetTokenMetadata(ctx, s.client, mint)
	if err != nil {
		return Token{}, fmt.Errorf("token %s: %w", mint, err)
	}
	return Token{Mint: mint, Symbol: md.Symbol, Decimals: md.Decimals}, nil
}

var _ PoolLister = (*PoolService)(nil)
