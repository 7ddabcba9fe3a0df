package dlmm

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/blockchain"
	"github.com/rovshanmuradov/dlmm-lp/internal/blockchain/mocks"
	"github.com/rovshanmuradov/dlmm-lp/internal/wallet"
)

var sendOpts = blockchain.TransactionOptions{
	SkipPreflight:       false,
	PreflightCommitment: rpc.CommitmentConfirmed,
}

type builderFixture struct {
	client  *mocks.Client
	builder *Builder
	user    *wallet.Wallet
	mints   []solana.PrivateKey
	params  CreatePositionParams
}

func newBuilderFixture(t *testing.T, retries int) *builderFixture {
	t.Helper()
	user, err := wallet.NewWallet(solana.NewWallet().PrivateKey.String())
	require.NoError(t, err)

	f := &builderFixture{
		client: new(mocks.Client),
		user:   user,
		params: CreatePositionParams{
			Payer:              user.PublicKey,
			Pair:               newKey(),
			RelativeBinIDLeft:  DefaultRelativeBinLeft,
			RelativeBinIDRight: DefaultRelativeBinRight,
		},
	}
	f.builder = NewBuilder(f.client, testProgram, retries, zap.NewNop())
	f.builder.newMint = func() (solana.PrivateKey, error) {
		key, err := solana.NewRandomPrivateKey()
		if err == nil {
			f.mints = append(f.mints, key)
		}
		return key, err
	}
	return f
}

func (f *builderFixture) expectBuild(existing ...[]byte) {
	f.client.On("GetRecentBlockhash", mock.Anything).Return(solana.Hash{1, 2, 3}, uint64(1234), nil)
	f.client.On("GetMultipleAccounts", mock.Anything, mock.Anything).Return(multipleAccounts(existing...), nil)
}

func signerIndex(tx *solana.Transaction, key solana.PublicKey) int {
	for i := 0; i < int(tx.Message.Header.NumRequiredSignatures); i++ {
		if tx.Message.AccountKeys[i].Equals(key) {
			return i
		}
	}
	return -1
}

func TestBuildCreatePosition_PartiallySigned(t *testing.T) {
	f := newBuilderFixture(t, 0)
	// lower bin array exists, upper does not
	f.expectBuild([]byte{1}, nil)

	prepared, err := f.builder.BuildCreatePosition(context.Background(), f.params)
	require.NoError(t, err)
	require.Len(t, f.mints, 1)

	tx := prepared.Tx
	assert.Equal(t, solana.Hash{1, 2, 3}, prepared.Blockhash)
	assert.Equal(t, uint64(1234), prepared.LastValidBlockHeight)
	assert.Equal(t, f.mints[0].PublicKey(), prepared.PositionMint)
	assert.Len(t, tx.Message.Instructions, 2)

	wantPosition, err := DerivePositionAddress(prepared.PositionMint, testProgram)
	require.NoError(t, err)
	assert.Equal(t, wantPosition, prepared.Position)

	assert.Equal(t, uint8(2), tx.Message.Header.NumRequiredSignatures)
	assert.Equal(t, 0, signerIndex(tx, f.user.PublicKey), "payer signs first")

	mintIdx := signerIndex(tx, prepared.PositionMint)
	require.Positive(t, mintIdx)
	assert.NotEqual(t, solana.Signature{}, tx.Signatures[mintIdx])
	assert.Equal(t, solana.Signature{}, tx.Signatures[0])
	assert.False(t, wallet.IsFullySigned(tx))

	require.NoError(t, f.user.SignTransaction(tx))
	assert.True(t, wallet.IsFullySigned(tx))
	assert.NoError(t, tx.VerifySignatures())
}

func TestBuildCreatePosition_BothBinArraysExist(t *testing.T) {
	f := newBuilderFixture(t, 0)
	f.expectBuild([]byte{1}, []byte{1})

	prepared, err := f.builder.BuildCreatePosition(context.Background(), f.params)
	require.NoError(t, err)
	require.Len(t, prepared.Tx.Message.Instructions, 1)

	ix := prepared.Tx.Message.Instructions[0]
	data := []byte(ix.Data)
	assert.Equal(t, createPositionDiscriminator[:], data[:8])
	assert.Len(t, data, 16)
}

func TestBuildCreatePosition_Validation(t *testing.T) {
	f := newBuilderFixture(t, 0)

	params := f.params
	params.RelativeBinIDLeft, params.RelativeBinIDRight = 5, -5
	_, err := f.builder.BuildCreatePosition(context.Background(), params)
	assert.ErrorIs(t, err, ErrInvalidBinRange)

	params = f.params
	params.Payer = solana.PublicKey{}
	_, err = f.builder.BuildCreatePosition(context.Background(), params)
	assert.ErrorIs(t, err, ErrWalletRequired)

	f.client.AssertNotCalled(t, "GetRecentBlockhash", mock.Anything)
}

func TestBuildCreatePosition_BlockhashFailure(t *testing.T) {
	f := newBuilderFixture(t, 0)
	f.client.On("GetRecentBlockhash", mock.Anything).Return(solana.Hash{}, uint64(0), errors.New("429 too many requests"))

	_, err := f.builder.BuildCreatePosition(context.Background(), f.params)
	var txErr *TxError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, StageBuild, txErr.Stage)
	assert.True(t, txErr.Transient)
	assert.Empty(t, f.mints)
}

func TestOpenPosition(t *testing.T) {
	f := newBuilderFixture(t, 2)
	f.expectBuild([]byte{1}, []byte{1})

	sig := solana.Signature{9, 9, 9}
	f.client.On("SendTransactionWithOpts", mock.Anything, mock.Anything, sendOpts).Return(sig, nil)
	f.client.On("WaitForTransactionConfirmation", mock.Anything, sig, rpc.CommitmentConfirmed).Return(nil)

	res, err := f.builder.OpenPosition(context.Background(), f.params, f.user)
	require.NoError(t, err)
	assert.Equal(t, sig, res.Signature)
	assert.Equal(t, f.mints[0].PublicKey(), res.PositionMint)

	sent := f.client.Calls[len(f.client.Calls)-2].Arguments.Get(1).(*solana.Transaction)
	assert.True(t, wallet.IsFullySigned(sent))
}

func TestOpenPosition_RebuildsOnExpiredBlockhash(t *testing.T) {
	f := newBuilderFixture(t, 2)
	f.expectBuild([]byte{1}, []byte{1})

	sig := solana.Signature{7}
	f.client.On("SendTransactionWithOpts", mock.Anything, mock.Anything, sendOpts).
		Return(solana.Signature{}, errors.New("Transaction simulation failed: Blockhash not found")).Once()
	f.client.On("SendTransactionWithOpts", mock.Anything, mock.Anything, sendOpts).Return(sig, nil).Once()
	f.client.On("WaitForTransactionConfirmation", mock.Anything, sig, rpc.CommitmentConfirmed).Return(nil)

	res, err := f.builder.OpenPosition(context.Background(), f.params, f.user)
	require.NoError(t, err)
	assert.Equal(t, sig, res.Signature)

	require.Len(t, f.mints, 2, "a fresh mint per attempt")
	assert.Equal(t, f.mints[1].PublicKey(), res.PositionMint)
	f.client.AssertNumberOfCalls(t, "GetRecentBlockhash", 2)
}

func TestOpenPosition_RetriesFailedRead(t *testing.T) {
	f := newBuilderFixture(t, 2)
	f.client.On("GetRecentBlockhash", mock.Anything).
		Return(solana.Hash{}, uint64(0), errors.New("429 too many requests")).Once()
	f.client.On("GetMultipleAccounts", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset")).Once()
	f.expectBuild([]byte{1}, []byte{1})

	sig := solana.Signature{5}
	f.client.On("SendTransactionWithOpts", mock.Anything, mock.Anything, sendOpts).Return(sig, nil)
	f.client.On("WaitForTransactionConfirmation", mock.Anything, sig, rpc.CommitmentConfirmed).Return(nil)

	res, err := f.builder.OpenPosition(context.Background(), f.params, f.user)
	require.NoError(t, err)
	assert.Equal(t, sig, res.Signature)
	f.client.AssertNumberOfCalls(t, "GetRecentBlockhash", 3)
	f.client.AssertNumberOfCalls(t, "GetMultipleAccounts", 2)
}

func TestOpenPosition_DeterministicBuildFailureNotRetried(t *testing.T) {
	f := newBuilderFixture(t, 3)
	f.expectBuild([]byte{1}, []byte{1})

	attempts := 0
	f.builder.newMint = func() (solana.PrivateKey, error) {
		attempts++
		return nil, errors.New("entropy unavailable")
	}

	_, err := f.builder.OpenPosition(context.Background(), f.params, f.user)
	var txErr *TxError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, StageBuild, txErr.Stage)
	assert.False(t, txErr.Transient)
	assert.Equal(t, 1, attempts)
	f.client.AssertNumberOfCalls(t, "GetRecentBlockhash", 1)
	f.client.AssertNotCalled(t, "SendTransactionWithOpts", mock.Anything, mock.Anything, mock.Anything)
}

func TestOpenPosition_ProgramError(t *testing.T) {
	f := newBuilderFixture(t, 2)
	f.expectBuild([]byte{1}, []byte{1})

	rpcErr := &jsonrpc.RPCError{
		Code:    -32002,
		Message: "Transaction simulation failed: Error processing Instruction 0: custom program error: 0x1773",
		Data: map[string]interface{}{
			"logs": []interface{}{
				"Program 1qbkdrr3z4ryLA7pZykqxvxWPoeifcVKo6ZG9CfkvVE invoke [1]",
				"Program log: AnchorError occurred. Error Code: InvalidBinId. Error Number: 6003. Error Message: Invalid bin id.",
			},
		},
	}
	f.client.On("SendTransactionWithOpts", mock.Anything, mock.Anything, sendOpts).Return(solana.Signature{}, rpcErr)

	_, err := f.builder.OpenPosition(context.Background(), f.params, f.user)
	var txErr *TxError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, StageSend, txErr.Stage)
	require.NotNil(t, txErr.Program)
	assert.Equal(t, "InvalidBinId", txErr.Program.Name)
	assert.Equal(t, 6003, txErr.Program.Code)
	assert.Contains(t, err.Error(), "InvalidBinId")

	f.client.AssertNumberOfCalls(t, "SendTransactionWithOpts", 1)
}

func TestOpenPosition_ConfirmationFailure(t *testing.T) {
	f := newBuilderFixture(t, 0)
	f.expectBuild([]byte{1}, []byte{1})

	sig := solana.Signature{3}
	f.client.On("SendTransactionWithOpts", mock.Anything, mock.Anything, sendOpts).Return(sig, nil)
	f.client.On("WaitForTransactionConfirmation", mock.Anything, sig, rpc.CommitmentConfirmed).
		Return(errors.New("confirmation timeout"))

	_, err := f.builder.OpenPosition(context.Background(), f.params, f.user)
	var txErr *TxError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, StageConfirm, txErr.Stage)
	assert.Equal(t, sig, txErr.Signature)
}

func TestOpenPosition_NoWallet(t *testing.T) {
	f := newBuilderFixture(t, 0)
	_, err := f.builder.OpenPosition(context.Background(), f.params, nil)
	assert.ErrorIs(t, err, ErrWalletRequired)
}
