// internal/blockchain/solbc/token_metadata.go
package solbc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/dlmm-lp/internal/blockchain"
	"go.uber.org/zap"
)

const (
	metadataTTL = 5 * time.Minute
	// mintDecimalsOffset is the decimals byte in both SPL Token and Token-2022 mints.
	mintDecimalsOffset = 44
)

// TokenMetadata holds what is known about a mint.
type TokenMetadata struct {
	Decimals  uint8
	Symbol    string
	Name      string
	Source    string // "chain", "api", "known"
	UpdatedAt time.Time
}

// tokenInfo is the token-list response: {"address","symbol","name","decimals"}.
type tokenInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

var knownTokens = map[string][2]string{
	"So11111111111111111111111111111111111111112":  {"SOL", "Wrapped SOL"},
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": {"USDC", "USD Coin"},
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB": {"USDT", "USDT"},
	"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": {"BONK", "Bonk"},
	"SarosY6Vscao718M4A778z4CGtvcwcGef5M9MEH1LGL":  {"SAROS", "Saros"},
}

// TokenMetadataCache resolves mint decimals on chain and symbols from an
// optional token-list endpoint, caching results for metadataTTL.
type TokenMetadataCache struct {
	cache      sync.Map
	logger     *zap.Logger
	httpClient *http.Client
	listURL    string
}

// NewTokenMetadataCache creates a cache. listURL may be empty; when set,
// GET {listURL}/{mint} is expected to return a token-info JSON object.
func NewTokenMetadataCache(listURL string, logger *zap.Logger) *TokenMetadataCache {
	return &TokenMetadataCache{
		logger:  logger.Named("token-metadata"),
		listURL: strings.TrimRight(listURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// GetTokenMetadata returns mint metadata. Decimals must come from the chain;
// a missing symbol is not an error.
func (c *TokenMetadataCache) GetTokenMetadata(
	ctx context.Context,
	client blockchain.Client,
	mint solana.PublicKey,
) (*TokenMetadata, error) {
	if metadata, ok := c.getFromCache(mint.String()); ok {
		return metadata, nil
	}

	metadata, err := c.getFromChain(ctx, client, mint)
	if err != nil {
		return nil, err
	}

	if c.listURL != "" {
		if err := c.enrichFromAPI(ctx, mint, metadata); err != nil {
			c.logger.Debug("failed to enrich metadata from API",
				zap.String("mint", mint.String()),
				zap.Error(err))
		}
	}

	if metadata.Symbol == "" {
		enrichFromKnownTokens(mint, metadata)
	}

	metadata.UpdatedAt = time.Now()
	c.cache.Store(mint.String(), metadata)

	c.logger.Debug("token metadata retrieved",
		zap.String("mint", mint.String()),
		zap.Uint8("decimals", metadata.Decimals),
		zap.String("symbol", metadata.Symbol),
		zap.String("source", metadata.Source))

	return metadata, nil
}

func (c *TokenMetadataCache) getFromCache(mint string) (*TokenMetadata, bool) {
	if value, ok := c.cache.Load(mint); ok {
		metadata := value.(*TokenMetadata)
		if time.Since(metadata.UpdatedAt) < metadataTTL {
			return metadata, true
		}
		c.cache.Delete(mint)
	}
	return nil, false
}

func (c *TokenMetadataCache) getFromChain(
	ctx context.Context,
	client blockchain.Client,
	mint solana.PublicKey,
) (*TokenMetadata, error) {
	acc, err := client.GetAccountInfo(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get mint account %s: %w", mint, err)
	}
	if acc == nil || acc.Value == nil {
		return nil, fmt.Errorf("%w: mint %s", ErrAccountNotFound, mint)
	}

	data := acc.Value.Data.GetBinary()
	if len(data) <= mintDecimalsOffset {
		return nil, fmt.Errorf("invalid mint account data length: %d", len(data))
	}

	return &TokenMetadata{
		Decimals: data[mintDecimalsOffset],
		Source:   "chain",
	}, nil
}

func (c *TokenMetadataCache) enrichFromAPI(ctx context.Context, mint solana.PublicKey, metadata *TokenMetadata) error {
	url := fmt.Sprintf("%s/%s", c.listURL, mint.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token list returned status code: %d", resp.StatusCode)
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("failed to decode token info: %w", err)
	}

	if info.Symbol != "" {
		metadata.Symbol = info.Symbol
		metadata.Name = info.Name
		metadata.Source = "api"
	}
	return nil
}

func enrichFromKnownTokens(mint solana.PublicKey, metadata *TokenMetadata) {
	if known, ok := knownTokens[mint.String()]; ok {
		metadata.Symbol = known[0]
		metadata.Name = known[1]
		metadata.Source = "known"
	}
}
