package dlmm

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/blockchain/mocks"
)

type positionFixture struct {
	client *mocks.Client
	owner  solana.PublicKey
	pairA  solana.PublicKey
	pairB  solana.PublicKey
	mints  []solana.PublicKey
}

// newPositionFixture: the owner holds two position NFTs (one per pair),
// one fungible balance, one NFT that is not a position and two entries
// without account data.
func newPositionFixture(t *testing.T) *positionFixture {
	f := &positionFixture{
		client: new(mocks.Client),
		owner:  newKey(),
		pairA:  newKey(),
		pairB:  newKey(),
		mints:  []solana.PublicKey{newKey(), newKey(), newKey(), newKey()},
	}

	accounts := &rpc.GetTokenAccountsResult{Value: []*rpc.TokenAccount{
		{Pubkey: newKey(), Account: *mocks.Account(Token2022ProgramID, tokenAccountData(f.mints[0], f.owner, 1))},
		{Pubkey: newKey(), Account: *mocks.Account(Token2022ProgramID, tokenAccountData(f.mints[1], f.owner, 1))},
		{Pubkey: newKey(), Account: *mocks.Account(Token2022ProgramID, tokenAccountData(f.mints[2], f.owner, 500))},
		{Pubkey: newKey(), Account: *mocks.Account(Token2022ProgramID, tokenAccountData(f.mints[3], f.owner, 1))},
		{Pubkey: newKey()},
		nil,
	}}
	f.client.On("GetTokenAccountsByOwner", mock.Anything, f.owner, Token2022ProgramID).Return(accounts, nil)

	candidates := []solana.PublicKey{f.mints[0], f.mints[1], f.mints[3]}
	addresses := make([]solana.PublicKey, len(candidates))
	for i, m := range candidates {
		addr, err := DerivePositionAddress(m, testProgram)
		require.NoError(t, err)
		addresses[i] = addr
	}

	f.client.On("GetMultipleAccounts", mock.Anything, addresses).Return(multipleAccounts(
		positionData(t, f.pairB, f.mints[0], BinIDOffset+10, BinIDOffset+20, 5, 5),
		positionData(t, f.pairA, f.mints[1], BinIDOffset-5, BinIDOffset+5, 40),
		nil,
	), nil)
	return f
}

func TestListPositions(t *testing.T) {
	f := newPositionFixture(t)
	f.client.On("GetMultipleAccounts", mock.Anything, mock.MatchedBy(func(keys []solana.PublicKey) bool {
		return len(keys) == 2
	})).Return(multipleAccounts(
		pairData(t, 10, mintSOL, mintUSDC, BinIDOffset+1),
		pairData(t, 10, mintSOL, mintUSDC, BinIDOffset+15),
	), nil)

	svc := NewPositionService(f.client, testProgram, zap.NewNop())
	positions, err := svc.ListPositions(context.Background(), f.owner, nil)
	require.NoError(t, err)
	require.Len(t, positions, 2)

	for i := 1; i < len(positions); i++ {
		prev, cur := positions[i-1], positions[i]
		assert.True(t, prev.Pool.String() <= cur.Pool.String())
	}

	byMint := map[solana.PublicKey]Position{}
	for _, p := range positions {
		byMint[p.Mint] = p
		assert.Nil(t, p.ValueUSD)
		assert.NotNil(t, p.PoolActiveID)
	}

	a := byMint[f.mints[1]]
	assert.Equal(t, f.pairA, a.Pool)
	assert.Equal(t, "40", a.Liquidity.String())
	left, right := a.RelativeRange()
	assert.Less(t, left, right)

	b := byMint[f.mints[0]]
	assert.Equal(t, "10", b.Liquidity.String())
	assert.Equal(t, int32(BinIDOffset+10), b.LowerBinID)
}

func TestListPositions_PairFilter(t *testing.T) {
	f := newPositionFixture(t)
	f.client.On("GetMultipleAccounts", mock.Anything, []solana.PublicKey{f.pairA}).
		Return(multipleAccounts(pairData(t, 10, mintSOL, mintUSDC, BinIDOffset+1)), nil)

	svc := NewPositionService(f.client, testProgram, zap.NewNop())
	positions, err := svc.ListPositions(context.Background(), f.owner, &f.pairA)
	require.NoError(t, err)
	require.Len(t, positions, 1)

	p := positions[0]
	assert.Equal(t, f.mints[1], p.Mint)
	require.NotNil(t, p.PoolActiveID)
	assert.Equal(t, int32(BinIDOffset+1), *p.PoolActiveID)
	assert.True(t, p.InRange())
	left, right := p.RelativeRange()
	assert.Equal(t, -6, left)
	assert.Equal(t, 4, right)
}

func TestListPositions_PoolUnavailable(t *testing.T) {
	f := newPositionFixture(t)
	f.client.On("GetMultipleAccounts", mock.Anything, []solana.PublicKey{f.pairA}).
		Return(nil, errors.New("timeout"))

	svc := NewPositionService(f.client, testProgram, zap.NewNop())
	positions, err := svc.ListPositions(context.Background(), f.owner, &f.pairA)
	require.NoError(t, err)
	require.Len(t, positions, 1)

	p := positions[0]
	assert.Nil(t, p.PoolActiveID)
	assert.False(t, p.InRange())
	assert.Equal(t, p.LowerBinID+5, p.ReferenceBin())
	left, right := p.RelativeRange()
	assert.Equal(t, -5, left)
	assert.Equal(t, 5, right)
}

func TestListPositions_PoolUndecodable(t *testing.T) {
	f := newPositionFixture(t)
	f.client.On("GetMultipleAccounts", mock.Anything, []solana.PublicKey{f.pairA}).
		Return(multipleAccounts([]byte{1, 2, 3}), nil)

	svc := NewPositionService(f.client, testProgram, zap.NewNop())
	positions, err := svc.ListPositions(context.Background(), f.owner, &f.pairA)
	require.NoError(t, err)
	require.Len(t, positions, 1)

	p := positions[0]
	_, known := p.ActiveBin()
	assert.False(t, known)
	assert.False(t, p.InRange())
	assert.Equal(t, p.LowerBinID+5, p.ReferenceBin())
}

func TestListPositions_ActiveBinZeroIsKnown(t *testing.T) {
	f := newPositionFixture(t)
	f.client.On("GetMultipleAccounts", mock.Anything, []solana.PublicKey{f.pairA}).
		Return(multipleAccounts(pairData(t, 10, mintSOL, mintUSDC, 0)), nil)

	svc := NewPositionService(f.client, testProgram, zap.NewNop())
	positions, err := svc.ListPositions(context.Background(), f.owner, &f.pairA)
	require.NoError(t, err)
	require.Len(t, positions, 1)

	p := positions[0]
	id, known := p.ActiveBin()
	assert.True(t, known)
	assert.Zero(t, id)
	assert.Equal(t, int32(0), p.ReferenceBin())
	assert.False(t, p.InRange())
}

func TestListPositions_NoTokens(t *testing.T) {
	client := new(mocks.Client)
	owner := newKey()
	client.On("GetTokenAccountsByOwner", mock.Anything, owner, Token2022ProgramID).
		Return(&rpc.GetTokenAccountsResult{}, nil)

	positions, err := NewPositionService(client, testProgram, zap.NewNop()).ListPositions(context.Background(), owner, nil)
	require.NoError(t, err)
	assert.Empty(t, positions)
	client.AssertNotCalled(t, "GetMultipleAccounts", mock.Anything, mock.Anything)
}

func TestListPositions_RPCError(t *testing.T) {
	client := new(mocks.Client)
	owner := newKey()
	client.On("GetTokenAccountsByOwner", mock.Anything, owner, Token2022ProgramID).
		Return(nil, errors.New("node unhealthy"))

	_, err := NewPositionService(client, testProgram, zap.NewNop()).ListPositions(context.Background(), owner, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node unhealthy")
}
