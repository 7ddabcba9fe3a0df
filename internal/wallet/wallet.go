// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"gopkg.in/yaml.v3"
)

// DefaultName is the name under which a keypair file is registered.
const DefaultName = "default"

var ErrSignerNotRequired = errors.New("key is not a required signer of the transaction")

// Wallet is a named local Solana keypair.
type Wallet struct {
	Name       string
	PrivateKey solana.PrivateKey
	PublicKey  solana.PublicKey
}

// NewWallet creates a wallet from a base58-encoded 64-byte private key.
func NewWallet(privateKeyBase58 string) (*Wallet, error) {
	privateKeyBytes, err := base58.Decode(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(privateKeyBytes) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(privateKeyBytes))
	}
	return fromPrivateKey(solana.PrivateKey(privateKeyBytes)), nil
}

func fromPrivateKey(pk solana.PrivateKey) *Wallet {
	return &Wallet{PrivateKey: pk, PublicKey: pk.PublicKey()}
}

// walletFile is the layout of the wallets YAML file.
type walletFile struct {
	Wallets []struct {
		Name       string `yaml:"name"`
		PrivateKey string `yaml:"private_key"`
	} `yaml:"wallets"`
}

// LoadWallets reads named wallets from a YAML file. Entries with an empty
// name or an undecodable key are skipped; an empty result is an error.
func LoadWallets(path string) (map[string]*Wallet, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var cfg walletFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(cfg.Wallets) == 0 {
		return nil, fmt.Errorf("no wallets found in %s", path)
	}

	wallets := make(map[string]*Wallet)
	for _, entry := range cfg.Wallets {
		if entry.Name == "" || entry.PrivateKey == "" {
			continue
		}
		w, err := NewWallet(entry.PrivateKey)
		if err != nil {
			continue
		}
		w.Name = entry.Name
		wallets[entry.Name] = w
	}

	if len(wallets) == 0 {
		return nil, fmt.Errorf("no valid wallets loaded from %s", path)
	}
	return wallets, nil
}

// LoadKeypairFile reads a solana-keygen JSON keypair.
func LoadKeypairFile(path string) (*Wallet, error) {
	pk, err := solana.PrivateKeyFromSolanaKeygenFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair %s: %w", path, err)
	}
	w := fromPrivateKey(pk)
	w.Name = DefaultName
	return w, nil
}

// Load combines the wallets file and an optional keypair file. Either source
// may be missing, but not both.
func Load(walletsFile, keypairPath string) (map[string]*Wallet, error) {
	wallets, fileErr := LoadWallets(walletsFile)
	if wallets == nil {
		wallets = make(map[string]*Wallet)
	}

	if keypairPath != "" {
		w, err := LoadKeypairFile(keypairPath)
		if err != nil {
			return nil, err
		}
		if _, taken := wallets[DefaultName]; !taken {
			wallets[DefaultName] = w
		}
	}

	if len(wallets) == 0 {
		return nil, fileErr
	}
	return wallets, nil
}

// Names returns wallet names in sorted order.
func Names(wallets map[string]*Wallet) []string {
	names := make([]string, 0, len(wallets))
	for name := range wallets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SignTransaction adds this wallet's signature and keeps any signatures
// already present, so a transaction partially signed by a generated
// keypair can be completed by the user.
func (w *Wallet) SignTransaction(tx *solana.Transaction) error {
	return PartialSign(tx, w.PrivateKey)
}

// PartialSign signs tx with each of keys at the signer slot the message
// assigns to it. Slots for other signers are left untouched.
func PartialSign(tx *solana.Transaction, keys ...solana.PrivateKey) error {
	content, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	required := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Message.AccountKeys) < required {
		return fmt.Errorf("message lists %d signers but only %d accounts", required, len(tx.Message.AccountKeys))
	}
	if len(tx.Signatures) != required {
		sigs := make([]solana.Signature, required)
		copy(sigs, tx.Signatures)
		tx.Signatures = sigs
	}

	for _, key := range keys {
		pub := key.PublicKey()
		idx := -1
		for i := 0; i < required; i++ {
			if tx.Message.AccountKeys[i].Equals(pub) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrSignerNotRequired, pub)
		}
		sig, err := key.Sign(content)
		if err != nil {
			return fmt.Errorf("failed to sign: %w", err)
		}
		tx.Signatures[idx] = sig
	}
	return nil
}

// IsFullySigned reports whether every required signer slot is filled.
func IsFullySigned(tx *solana.Transaction) bool {
	required := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Signatures) != required {
		return false
	}
	for _, sig := range tx.Signatures {
		if sig == (solana.Signature{}) {
			return false
		}
	}
	return true
}

// Short renders the public key as "abcd...wxyz".
func (w *Wallet) Short() string {
	s := w.PublicKey.String()
	if len(s) <= 8 {
		return s
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// String returns the wallet public key.
func (w *Wallet) String() string {
	return w.PublicKey.String()
}
