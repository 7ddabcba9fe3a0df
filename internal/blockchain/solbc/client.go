// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rovshanmuradov/dlmm-lp/internal/blockchain"
	"go.uber.org/zap"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrNoEndpoints         = errors.New("no RPC endpoints configured")
	ErrConfirmationTimeout = errors.New("confirmation timeout")
)

const (
	confirmationPoll    = 500 * time.Millisecond
	confirmationTimeout = 60 * time.Second
)

// IsAccountNotFoundError reports whether err means the account does not exist.
func IsAccountNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAccountNotFound) || errors.Is(err, rpc.ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// IsBlockhashNotFound reports whether the node rejected a transaction because
// its blockhash expired or is unknown.
func IsBlockhashNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "blockhash not found") || strings.Contains(msg, "blockhashnotfound")
}

// endpoint is one RPC node.
type endpoint struct {
	url string
	rpc *rpc.Client
}

// Client is a thin adapter over solana-go's RPC client that fails over
// across the configured endpoints.
type Client struct {
	endpoints []endpoint
	mu        sync.Mutex
	current   int
	logger    *zap.Logger
}

// NewClient creates a client for the given endpoints. The first one is tried first.
func NewClient(rpcURLs []string, logger *zap.Logger) (*Client, error) {
	if len(rpcURLs) == 0 {
		return nil, ErrNoEndpoints
	}
	eps := make([]endpoint, 0, len(rpcURLs))
	for _, u := range rpcURLs {
		eps = append(eps, endpoint{url: u, rpc: rpc.New(u)})
	}
	return &Client{
		endpoints: eps,
		logger:    logger.Named("solbc-client"),
	}, nil
}

// do runs fn against the current endpoint, moving to the next one on failure.
// Context cancellation stops the failover loop.
func (c *Client) do(ctx context.Context, method string, fn func(*rpc.Client) error) error {
	c.mu.Lock()
	start := c.current
	c.mu.Unlock()

	var lastErr error
	for i := 0; i < len(c.endpoints); i++ {
		idx := (start + i) % len(c.endpoints)
		ep := c.endpoints[idx]

		err := fn(ep.rpc)
		if err == nil {
			if idx != start {
				c.mu.Lock()
				c.current = idx
				c.mu.Unlock()
			}
			return nil
		}
		lastErr = err
		if ctx.Err() != nil || !isTransportError(err) {
			break
		}
		c.logger.Debug("RPC endpoint failed, trying next",
			zap.String("method", method),
			zap.String("endpoint", ep.url),
			zap.Error(err))
	}
	return lastErr
}

// isTransportError separates node or network trouble from well-formed
// RPC responses such as "account not found" or a simulation failure.
func isTransportError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"connection", "timeout", "eof", "429", "502", "503", "504", "no such host"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// GetRecentBlockhash fetches the latest blockhash at confirmed commitment.
func (c *Client) GetRecentBlockhash(ctx context.Context) (solana.Hash, uint64, error) {
	var result *rpc.GetLatestBlockhashResult
	err := c.do(ctx, "getLatestBlockhash", func(cl *rpc.Client) (err error) {
		result, err = cl.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
		return err
	})
	if err != nil {
		c.logger.Error("GetRecentBlockhash error", zap.Error(err))
		return solana.Hash{}, 0, err
	}
	return result.Value.Blockhash, result.Value.LastValidBlockHeight, nil
}

// GetAccountInfo fetches a single account at confirmed commitment.
func (c *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	var result *rpc.GetAccountInfoResult
	err := c.do(ctx, "getAccountInfo", func(cl *rpc.Client) (err error) {
		result, err = cl.GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
			Commitment: rpc.CommitmentConfirmed,
			Encoding:   solana.EncodingBase64,
		})
		return err
	})
	if err != nil {
		c.logger.Debug("GetAccountInfo error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, pubkey)
		}
		return nil, err
	}
	return result, nil
}

// GetMultipleAccounts fetches several accounts in one request.
func (c *Client) GetMultipleAccounts(ctx context.Context, pubkeys []solana.PublicKey) (*rpc.GetMultipleAccountsResult, error) {
	if len(pubkeys) == 0 {
		return &rpc.GetMultipleAccountsResult{}, nil
	}

	opts := rpc.GetMultipleAccountsOpts{
		Commitment: rpc.CommitmentConfirmed,
		Encoding:   solana.EncodingBase64,
	}

	var res *rpc.GetMultipleAccountsResult
	err := c.do(ctx, "getMultipleAccounts", func(cl *rpc.Client) (err error) {
		res, err = cl.GetMultipleAccountsWithOpts(ctx, pubkeys, &opts)
		return err
	})
	if err != nil {
		c.logger.Debug("GetMultipleAccounts error", zap.Int("count", len(pubkeys)), zap.Error(err))
		return nil, err
	}
	return res, nil
}

// GetProgramAccountsWithOpts lists program accounts matching opts.
func (c *Client) GetProgramAccountsWithOpts(
	ctx context.Context,
	programID solana.PublicKey,
	opts *rpc.GetProgramAccountsOpts,
) (rpc.GetProgramAccountsResult, error) {
	var accounts rpc.GetProgramAccountsResult
	err := c.do(ctx, "getProgramAccounts", func(cl *rpc.Client) (err error) {
		accounts, err = cl.GetProgramAccountsWithOpts(ctx, programID, opts)
		return err
	})
	if err != nil {
		c.logger.Debug("GetProgramAccountsWithOpts error",
			zap.String("program_id", programID.String()),
			zap.Error(err))
		return nil, err
	}
	return accounts, nil
}

// GetTokenAccountsByOwner lists owner's token accounts under tokenProgram, base64-encoded.
func (c *Client) GetTokenAccountsByOwner(ctx context.Context, owner, tokenProgram solana.PublicKey) (*rpc.GetTokenAccountsResult, error) {
	var res *rpc.GetTokenAccountsResult
	err := c.do(ctx, "getTokenAccountsByOwner", func(cl *rpc.Client) (err error) {
		res, err = cl.GetTokenAccountsByOwner(ctx, owner,
			&rpc.GetTokenAccountsConfig{ProgramId: tokenProgram.ToPointer()},
			&rpc.GetTokenAccountsOpts{
				Commitment: rpc.CommitmentConfirmed,
				Encoding:   solana.EncodingBase64,
			})
		return err
	})
	if err != nil {
		c.logger.Debug("GetTokenAccountsByOwner error",
			zap.String("owner", owner.String()),
			zap.Error(err))
		return nil, err
	}
	return res, nil
}

// GetSignatureStatuses fetches transaction statuses.
func (c *Client) GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	var result *rpc.GetSignatureStatusesResult
	err := c.do(ctx, "getSignatureStatuses", func(cl *rpc.Client) (err error) {
		result, err = cl.GetSignatureStatuses(ctx, false, signatures...)
		return err
	})
	if err != nil {
		c.logger.Error("GetSignatureStatuses error", zap.Error(err))
		return nil, err
	}
	return result, nil
}

// SendTransactionWithOpts submits a signed transaction.
func (c *Client) SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts blockchain.TransactionOptions) (solana.Signature, error) {
	txOpts := rpc.TransactionOpts{
		SkipPreflight:       opts.SkipPreflight,
		PreflightCommitment: opts.PreflightCommitment,
	}
	if opts.MaxRetries > 0 {
		retries := opts.MaxRetries
		txOpts.MaxRetries = &retries
	}

	var sig solana.Signature
	err := c.do(ctx, "sendTransaction", func(cl *rpc.Client) (err error) {
		sig, err = cl.SendTransactionWithOpts(ctx, tx, txOpts)
		return err
	})
	if err != nil {
		c.logger.Error("SendTransactionWithOpts error", zap.Error(err))
		return solana.Signature{}, err
	}
	return sig, nil
}

// SimulateTransaction simulates a transaction and returns its logs.
func (c *Client) SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*blockchain.SimulationResult, error) {
	var result *rpc.SimulateTransactionResponse
	err := c.do(ctx, "simulateTransaction", func(cl *rpc.Client) (err error) {
		result, err = cl.SimulateTransaction(ctx, tx)
		return err
	})
	if err != nil {
		c.logger.Error("SimulateTransaction error", zap.Error(err))
		return nil, err
	}
	units := uint64(0)
	if result.Value.UnitsConsumed != nil {
		units = *result.Value.UnitsConsumed
	}
	return &blockchain.SimulationResult{
		Err:           result.Value.Err,
		Logs:          result.Value.Logs,
		UnitsConsumed: units,
	}, nil
}

// WaitForTransactionConfirmation polls the signature status until it reaches
// commitment, the transaction fails, or the timeout expires.
func (c *Client) WaitForTransactionConfirmation(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) error {
	ticker := time.NewTicker(confirmationPoll)
	defer ticker.Stop()
	timeout := time.After(confirmationTimeout)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout:
			return fmt.Errorf("%w: %s", ErrConfirmationTimeout, signature)
		case <-ticker.C:
			statuses, err := c.GetSignatureStatuses(ctx, signature)
			if err != nil {
				c.logger.Warn("Error getting signature statuses", zap.Error(err))
				continue
			}
			if statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
				continue
			}
			status := statuses.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed: %v", signature, status.Err)
			}
			if reachedCommitment(status.ConfirmationStatus, commitment) {
				return nil
			}
		}
	}
}

func reachedCommitment(got rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	switch got {
	case rpc.ConfirmationStatusFinalized:
		return true
	case rpc.ConfirmationStatusConfirmed:
		return want != rpc.CommitmentFinalized
	case rpc.ConfirmationStatusProcessed:
		return want == rpc.CommitmentProcessed
	}
	return false
}

var _ blockchain.Client = (*Client)(nil)
