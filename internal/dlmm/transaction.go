// =============================
// File: internal/dlmm/transaction.go
// =============================
package dlmm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/blockchain"
	"github.com/rovshanmuradov/dlmm-lp/internal/blockchain/solbc"
	"github.com/rovshanmuradov/dlmm-lp/internal/wallet"
)

// Signer completes a partially signed transaction.
type Signer interface {
	SignTransaction(tx *solana.Transaction) error
}

// PositionOpener is what views and commands need to open positions.
type PositionOpener interface {
	OpenPosition(ctx context.Context, params CreatePositionParams, signer Signer) (*OpenResult, error)
}

// CreatePositionParams describes a new position relative to the active bin.
type CreatePositionParams struct {
	Payer              solana.PublicKey
	Pair               solana.PublicKey
	RelativeBinIDLeft  int32
	RelativeBinIDRight int32
	// BinArrayIndex is the lower of the two bin arrays ensured to exist.
	BinArrayIndex int32
}

// NewCreatePositionParams builds params for a relative range on pool. The
// bin arrays ensured start at the one holding the range's lowest bin.
func NewCreatePositionParams(payer solana.PublicKey, pool Pool, left, right int) CreatePositionParams {
	return CreatePositionParams{
		Payer:              payer,
		Pair:               pool.Address,
		RelativeBinIDLeft:  int32(left),
		RelativeBinIDRight: int32(right),
		BinArrayIndex:      BinArrayIndex(pool.ActiveID + int32(left)),
	}
}

// PreparedTx is a create_position transaction signed by the position mint
// and waiting for the payer's signature.
type PreparedTx struct {
	Tx                   *solana.Transaction
	PositionMint         solana.PublicKey
	Position             solana.PublicKey
	Blockhash            solana.Hash
	LastValidBlockHeight uint64
}

// OpenResult is a confirmed position.
type OpenResult struct {
	Signature    solana.Signature
	PositionMint solana.PublicKey
	Position     solana.PublicKey
}

// Builder builds and submits create_position transactions.
type Builder struct {
	client    blockchain.Client
	programID solana.PublicKey
	analyzer  *solbc.ErrorAnalyzer
	retries   int
	logger    *zap.Logger
	// newMint is swapped in tests.
	newMint func() (solana.PrivateKey, error)
}

func NewBuilder(client blockchain.Client, programID solana.PublicKey, retries int, logger *zap.Logger) *Builder {
	return &Builder{
		client:    client,
		programID: programID,
		analyzer:  solbc.NewErrorAnalyzer(logger),
		retries:   retries,
		logger:    logger.Named("builder"),
		newMint:   solana.NewRandomPrivateKey,
	}
}

// BuildCreatePosition fetches a blockhash, creates a fresh position mint and
// returns a transaction partially signed by that mint.
func (b *Builder) BuildCreatePosition(ctx context.Context, params CreatePositionParams) (*PreparedTx, error) {
	if params.Payer.IsZero() {
		return nil, ErrWalletRequired
	}
	if err := ValidateBinRange(int(params.RelativeBinIDLeft), int(params.RelativeBinIDRight)); err != nil {
		return nil, err
	}

	blockhash, lastValid, err := b.client.GetRecentBlockhash(ctx)
	if err != nil {
		return nil, &TxError{Stage: StageBuild, Transient: true, Err: fmt.Errorf("failed to get recent blockhash: %w", err)}
	}

	mintKey, err := b.newMint()
	if err != nil {
		return nil, &TxError{Stage: StageBuild, Err: fmt.Errorf("failed to generate position mint: %w", err)}
	}
	positionMint := mintKey.PublicKey()

	instructions, position, err := b.instructions(ctx, params, positionMint)
	if err != nil {
		var txErr *TxError
		if errors.As(err, &txErr) {
			return nil, err
		}
		return nil, &TxError{Stage: StageBuild, Err: err}
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(params.Payer))
	if err != nil {
		return nil, &TxError{Stage: StageBuild, Err: fmt.Errorf("failed to create transaction: %w", err)}
	}

	if err := wallet.PartialSign(tx, mintKey); err != nil {
		return nil, &TxError{Stage: StageSign, Err: fmt.Errorf("position mint signature: %w", err)}
	}

	b.logger.Debug("create_position transaction ready",
		zap.String("pair", params.Pair.String()),
		zap.String("position_mint", positionMint.String()),
		zap.Int32("left", params.RelativeBinIDLeft),
		zap.Int32("right", params.RelativeBinIDRight),
		zap.Int("instructions", len(instructions)))

	return &PreparedTx{
		Tx:                   tx,
		PositionMint:         positionMint,
		Position:             position,
		Blockhash:            blockhash,
		LastValidBlockHeight: lastValid,
	}, nil
}

func (b *Builder) instructions(ctx context.Context, params CreatePositionParams, positionMint solana.PublicKey) ([]solana.Instruction, solana.PublicKey, error) {
	binArrayIxs, err := b.ensureBinArrays(ctx, params)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	position, err := DerivePositionAddress(positionMint, b.programID)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("derive position: %w", err)
	}
	tokenAccount, err := DerivePositionTokenAccount(params.Payer, positionMint)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("derive position token account: %w", err)
	}
	eventAuthority, err := DeriveEventAuthority(b.programID)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("derive event authority: %w", err)
	}

	createIx, err := newCreatePositionInstruction(CreatePositionAccounts{
		Pair:                 params.Pair,
		Position:             position,
		PositionMint:         positionMint,
		PositionTokenAccount: tokenAccount,
		User:                 params.Payer,
		EventAuthority:       eventAuthority,
		ProgramID:            b.programID,
	}, params.RelativeBinIDLeft, params.RelativeBinIDRight)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("encode create_position: %w", err)
	}

	return append(binArrayIxs, createIx), position, nil
}

// ensureBinArrays returns initialize_bin_array instructions for the two
// bin arrays at BinArrayIndex and BinArrayIndex+1 that do not exist yet.
func (b *Builder) ensureBinArrays(ctx context.Context, params CreatePositionParams) ([]solana.Instruction, error) {
	indexes := []int32{params.BinArrayIndex, params.BinArrayIndex + 1}
	keys := make([]solana.PublicKey, len(indexes))
	for i, idx := range indexes {
		addr, err := DeriveBinArrayAddress(params.Pair, idx, b.programID)
		if err != nil {
			return nil, fmt.Errorf("derive bin array %d: %w", idx, err)
		}
		keys[i] = addr
	}

	res, err := b.client.GetMultipleAccounts(ctx, keys)
	if err != nil {
		return nil, &TxError{Stage: StageBuild, Transient: true, Err: fmt.Errorf("failed to check bin arrays: %w", err)}
	}

	var ixs []solana.Instruction
	for i, key := range keys {
		if res != nil && i < len(res.Value) && res.Value[i] != nil {
			continue
		}
		ix, err := newInitializeBinArrayInstruction(params.Pair, key, params.Payer, b.programID, indexes[i])
		if err != nil {
			return nil, fmt.Errorf("encode initialize_bin_array: %w", err)
		}
		ixs = append(ixs, ix)
	}
	return ixs, nil
}

// Submit adds the signer's signature, sends with preflight at confirmed
// commitment and waits for confirmation.
func (b *Builder) Submit(ctx context.Context, prepared *PreparedTx, signer Signer) (solana.Signature, error) {
	if signer == nil {
		return solana.Signature{}, ErrWalletRequired
	}
	if err := signer.SignTransaction(prepared.Tx); err != nil {
		return solana.Signature{}, &TxError{Stage: StageSign, Err: err}
	}
	if !wallet.IsFullySigned(prepared.Tx) {
		return solana.Signature{}, &TxError{Stage: StageSign, Err: errors.New("transaction is missing signatures")}
	}

	sig, err := b.client.SendTransactionWithOpts(ctx, prepared.Tx, blockchain.TransactionOptions{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		txErr := &TxError{Stage: StageSend, Err: err}
		if analysis := b.analyzer.AnalyzeRPCError(err); analysis.Anchor != nil {
			txErr.Program = analysis.Anchor
		}
		return solana.Signature{}, txErr
	}

	b.logger.Info("Transaction sent", zap.String("signature", sig.String()))

	if err := b.client.WaitForTransactionConfirmation(ctx, sig, rpc.CommitmentConfirmed); err != nil {
		return sig, &TxError{Stage: StageConfirm, Signature: sig, Err: err}
	}
	return sig, nil
}

// OpenPosition builds and submits a position. An expired blockhash triggers a
// rebuild with a new blockhash and mint; other failures are returned as is.
func (b *Builder) OpenPosition(ctx context.Context, params CreatePositionParams, signer Signer) (*OpenResult, error) {
	if signer == nil {
		return nil, ErrWalletRequired
	}

	op := func() (*OpenResult, error) {
		prepared, err := b.BuildCreatePosition(ctx, params)
		if err != nil {
			// Only RPC reads are retried; validation, derivation and encoding are not.
			var txErr *TxError
			if errors.As(err, &txErr) && txErr.Transient {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}

		sig, err := b.Submit(ctx, prepared, signer)
		if err != nil {
			if solbc.IsBlockhashNotFound(err) {
				b.logger.Warn("Blockhash expired, rebuilding", zap.Error(err))
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}

		return &OpenResult{
			Signature:    sig,
			PositionMint: prepared.PositionMint,
			Position:     prepared.Position,
		}, nil
	}

	res, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(b.retries+1)),
		backoff.WithMaxElapsedTime(45*time.Second),
	)
	if err != nil {
		return nil, err
	}

	b.logger.Info("Position opened",
		zap.String("signature", res.Signature.String()),
		zap.String("position", res.Position.String()))
	return res, nil
}

var _ PositionOpener = (*Builder)(nil)
