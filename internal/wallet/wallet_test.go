package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomKey(t *testing.T) solana.PrivateKey {
	t.Helper()
	pk, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return pk
}

func TestNewWallet(t *testing.T) {
	pk := randomKey(t)

	w, err := NewWallet(pk.String())
	require.NoError(t, err)
	assert.Equal(t, pk.PublicKey(), w.PublicKey)
	assert.Equal(t, pk.PublicKey().String(), w.String())

	_, err = NewWallet("0OIl")
	assert.Error(t, err)

	_, err = NewWallet("3yZe7d")
	assert.ErrorContains(t, err, "invalid private key length")
}

func TestLoadWallets(t *testing.T) {
	a, b := randomKey(t), randomKey(t)
	content := fmt.Sprintf(`wallets:
  - name: main
    private_key: %s
  - name: second
    private_key: %s
  - name: broken
    private_key: not-base58-0OIl
  - name: ""
    private_key: %s
`, a, b, a)

	path := filepath.Join(t.TempDir(), "wallets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	wallets, err := LoadWallets(path)
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	assert.Equal(t, "main", wallets["main"].Name)
	assert.Equal(t, b.PublicKey(), wallets["second"].PublicKey)
	assert.Equal(t, []string{"main", "second"}, Names(wallets))
}

func TestLoadWallets_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadWallets(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("wallets: []\n"), 0600))
	_, err = LoadWallets(empty)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("wallets:\n  - name: x\n    private_key: abc\n"), 0600))
	_, err = LoadWallets(invalid)
	assert.Error(t, err)
}

func writeKeypair(t *testing.T, pk solana.PrivateKey) string {
	t.Helper()
	ints := make([]int, len(pk))
	for i, b := range pk {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestLoadKeypairFile(t *testing.T) {
	pk := randomKey(t)

	w, err := LoadKeypairFile(writeKeypair(t, pk))
	require.NoError(t, err)
	assert.Equal(t, DefaultName, w.Name)
	assert.Equal(t, pk.PublicKey(), w.PublicKey)
}

func TestLoad_KeypairOnly(t *testing.T) {
	pk := randomKey(t)

	wallets, err := Load(filepath.Join(t.TempDir(), "none.yaml"), writeKeypair(t, pk))
	require.NoError(t, err)
	require.Contains(t, wallets, DefaultName)
	assert.Equal(t, pk.PublicKey(), wallets[DefaultName].PublicKey)

	_, err = Load(filepath.Join(t.TempDir(), "none.yaml"), "")
	assert.Error(t, err)
}

func twoSignerTx(t *testing.T, payer, extra solana.PublicKey) *solana.Transaction {
	t.Helper()
	ix := solana.NewInstruction(
		solana.SystemProgramID,
		solana.AccountMetaSlice{
			solana.Meta(payer).WRITE().SIGNER(),
			solana.Meta(extra).WRITE().SIGNER(),
		},
		[]byte{0},
	)
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{1, 2, 3}, solana.TransactionPayer(payer))
	require.NoError(t, err)
	return tx
}

func TestSignTransaction_KeepsPartialSignatures(t *testing.T) {
	user := randomKey(t)
	mint := randomKey(t)
	w, err := NewWallet(user.String())
	require.NoError(t, err)

	tx := twoSignerTx(t, user.PublicKey(), mint.PublicKey())

	require.NoError(t, PartialSign(tx, mint))
	assert.False(t, IsFullySigned(tx))
	mintSig := tx.Signatures[1]

	require.NoError(t, w.SignTransaction(tx))
	assert.True(t, IsFullySigned(tx))
	assert.Equal(t, mintSig, tx.Signatures[1])
	assert.NoError(t, tx.VerifySignatures())
}

func TestPartialSign_UnknownSigner(t *testing.T) {
	user := randomKey(t)
	tx := twoSignerTx(t, user.PublicKey(), randomKey(t).PublicKey())

	err := PartialSign(tx, randomKey(t))
	assert.ErrorIs(t, err, ErrSignerNotRequired)
}

func TestShort(t *testing.T) {
	w := &Wallet{PublicKey: solana.MustPublicKeyFromBase58("1qbkdrr3z4ryLA7pZykqxvxWPoeifcVKo6ZG9CfkvVE")}
	assert.Equal(t, "1qbk...kvVE", w.Short())
}
