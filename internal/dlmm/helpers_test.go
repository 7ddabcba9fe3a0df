package dlmm

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/dlmm-lp/internal/blockchain/mocks"
)

var (
	testProgram = DefaultProgramID
	mintSOL     = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	mintUSDC    = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
)

func newKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

func pairData(t *testing.T, binStep uint8, mintX, mintY solana.PublicKey, activeID uint32) []byte {
	t.Helper()
	data, err := encodeBorsh(pairAccount{
		Discriminator: pairDiscriminator,
		BinStep:       binStep,
		TokenMintX:    mintX,
		TokenMintY:    mintY,
		ActiveID:      activeID,
	})
	require.NoError(t, err)
	// trailing dynamic fee state is ignored by the decoder
	return append(data, make([]byte, 64)...)
}

func positionData(t *testing.T, pair, mint solana.PublicKey, lower, upper int32, shares ...uint64) []byte {
	t.Helper()
	acc := positionAccount{
		Discriminator: positionDiscriminator,
		Pair:          pair,
		PositionMint:  mint,
		LowerBinID:    lower,
		UpperBinID:    upper,
	}
	for i, s := range shares {
		binary.LittleEndian.PutUint64(acc.LiquidityShares[i][:8], s)
	}
	data, err := encodeBorsh(acc)
	require.NoError(t, err)
	return data
}

func mintAccountData(decimals uint8) []byte {
	data := make([]byte, 82)
	data[44] = decimals
	return data
}

func tokenAccountData(mint, owner solana.PublicKey, amount uint64) []byte {
	data := make([]byte, 165)
	copy(data[0:32], mint[:])
	copy(data[32:64], owner[:])
	binary.LittleEndian.PutUint64(data[64:72], amount)
	return data
}

func keyedAccounts(keys ...solana.PublicKey) rpc.GetProgramAccountsResult {
	out := make(rpc.GetProgramAccountsResult, 0, len(keys))
	for _, k := range keys {
		out = append(out, &rpc.KeyedAccount{Pubkey: k, Account: mocks.Account(testProgram, nil)})
	}
	return out
}

func multipleAccounts(datas ...[]byte) *rpc.GetMultipleAccountsResult {
	res := &rpc.GetMultipleAccountsResult{}
	for _, d := range datas {
		if d == nil {
			res.Value = append(res.Value, nil)
			continue
		}
		res.Value = append(res.Value, mocks.Account(testProgram, d))
	}
	return res
}

func bigShare(hi, lo uint64) [16]byte {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], lo)
	binary.LittleEndian.PutUint64(b[8:], hi)
	return b
}

func bigFromShare(hi, lo uint64) *big.Int {
	v := new(big.Int).Lsh(new(big.Int).SetUint64(hi), 64)
	return v.Add(v, new(big.Int).SetUint64(lo))
}
