// =============================
// File: internal/dlmm/positions.go
// =============================
package dlmm

import (
	"context"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/blockchain"
)

const (
	tokenAccountMintOffset   = 0
	tokenAccountAmountOffset = 64
	tokenAccountMinSize      = 72
)

// PositionLister is what views and handlers need from position discovery.
type PositionLister interface {
	ListPositions(ctx context.Context, owner solana.PublicKey, pair *solana.PublicKey) ([]Position, error)
}

// PositionService finds positions through the position-mint NFTs a wallet holds.
type PositionService struct {
	client    blockchain.Client
	programID solana.PublicKey
	logger    *zap.Logger
}

func NewPositionService(client blockchain.Client, programID solana.PublicKey, logger *zap.Logger) *PositionService {
	return &PositionService{
		client:    client,
		programID: programID,
		logger:    logger.Named("positions"),
	}
}

// ListPositions returns owner's positions, optionally restricted to one pair,
// ordered by pool and lower bin.
func (s *PositionService) ListPositions(ctx context.Context, owner solana.PublicKey, pair *solana.PublicKey) ([]Position, error) {
	mints, err := s.positionMintCandidates(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(mints) == 0 {
		return []Position{}, nil
	}

	addresses := make([]solana.PublicKey, len(mints))
	for i, mint := range mints {
		if addresses[i], err = DerivePositionAddress(mint, s.programID); err != nil {
			return nil, fmt.Errorf("derive position for mint %s: %w", mint, err)
		}
	}

	datas, err := s.fetchAccounts(ctx, addresses)
	if err != nil {
		return nil, err
	}

	positions := make([]Position, 0, len(addresses))
	for i, data := range datas {
		// NFTs that are not position mints have no position account.
		if data == nil {
			continue
		}
		acc, err := decodePosition(data)
		if err != nil {
			s.logger.Debug("Skipping undecodable position", zap.String("address", addresses[i].String()), zap.Error(err))
			continue
		}
		if pair != nil && !acc.Pair.Equals(*pair) {
			continue
		}
		positions = append(positions, Position{
			Address:    addresses[i],
			Pool:       acc.Pair,
			Mint:       acc.PositionMint,
			LowerBinID: acc.LowerBinID,
			UpperBinID: acc.UpperBinID,
			Liquidity:  acc.TotalLiquidity(),
		})
	}

	if err := s.attachActiveBins(ctx, positions); err != nil {
		s.logger.Warn("Failed to load pool active bins", zap.Error(err))
	}

	sort.Slice(positions, func(i, j int) bool {
		if !positions[i].Pool.Equals(positions[j].Pool) {
			return positions[i].Pool.String() < positions[j].Pool.String()
		}
		return positions[i].LowerBinID < positions[j].LowerBinID
	})

	s.logger.Debug("Positions loaded",
		zap.String("owner", owner.String()),
		zap.Int("candidates", len(mints)),
		zap.Int("positions", len(positions)))
	return positions, nil
}

// positionMintCandidates returns mints of Token-2022 accounts holding exactly one unit.
func (s *PositionService) positionMintCandidates(ctx context.Context, owner solana.PublicKey) ([]solana.PublicKey, error) {
	res, err := s.client.GetTokenAccountsByOwner(ctx, owner, Token2022ProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to list token accounts of %s: %w", owner, err)
	}
	if res == nil {
		return nil, nil
	}

	var mints []solana.PublicKey
	for _, ta := range res.Value {
		if ta == nil || ta.Account.Data == nil {
			continue
		}
		data := ta.Account.Data.GetBinary()
		if len(data) < tokenAccountMinSize {
			continue
		}
		if binary.LittleEndian.Uint64(data[tokenAccountAmountOffset:]) != 1 {
			continue
		}
		mints = append(mints, solana.PublicKeyFromBytes(data[tokenAccountMintOffset:tokenAccountMintOffset+32]))
	}
	return mints, nil
}

// fetchAccounts loads account data in batches; missing accounts yield nil.
func (s *PositionService) fetchAccounts(ctx context.Context, keys []solana.PublicKey) ([][]byte, error) {
	out := make([][]byte, 0, len(keys))
	for start := 0; start < len(keys); start += maxAccountsPerRequest {
		end := start + maxAccountsPerRequest
		if end > len(keys) {
			end = len(keys)
		}
		res, err := s.client.GetMultipleAccounts(ctx, keys[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to fetch accounts: %w", err)
		}
		for i := start; i < end; i++ {
			var data []byte
			if res != nil && i-start < len(res.Value) && res.Value[i-start] != nil {
				data = res.Value[i-start].Data.GetBinary()
			}
			out = append(out, data)
		}
	}
	return out, nil
}

// attachActiveBins records each pool's active bin on its positions.
func (s *PositionService) attachActiveBins(ctx context.Context, positions []Position) error {
	var pairs []solana.PublicKey
	seen := make(map[solana.PublicKey]bool)
	for _, p := range positions {
		if !seen[p.Pool] {
			seen[p.Pool] = true
			pairs = append(pairs, p.Pool)
		}
	}
	if len(pairs) == 0 {
		return nil
	}

	datas, err := s.fetchAccounts(ctx, pairs)
	if err != nil {
		return err
	}
	active := make(map[solana.PublicKey]int32, len(pairs))
	for i, data := range datas {
		if data == nil {
			continue
		}
		pair, err := decodePair(data)
		if err != nil {
			s.logger.Debug("Skipping undecodable pair", zap.String("pair", pairs[i].String()), zap.Error(err))
			continue
		}
		active[pairs[i]] = int32(pair.ActiveID)
	}
	for i := range positions {
		if id, ok := active[positions[i].Pool]; ok {
			positions[i].PoolActiveID = &id
		}
	}
	return nil
}

var _ PositionLister = (*PositionService)(nil)
