// =============================
// File: internal/dlmm/constants.go
// =============================
package dlmm

import (
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"
)

var (
	// DefaultProgramID is the Saros liquidity book program.
	DefaultProgramID = solana.MustPublicKeyFromBase58("1qbkdrr3z4ryLA7pZykqxvxWPoeifcVKo6ZG9CfkvVE")

	// Token2022ProgramID owns position mints.
	Token2022ProgramID       = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	AssociatedTokenProgramID = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	SystemProgramID          = solana.SystemProgramID
)

const (
	// BinIDOffset is the bin id at which price equals 1 before decimal adjustment.
	BinIDOffset = 1 << 23
	// BinsPerArray is the number of bins stored in one bin array account.
	BinsPerArray = 256
	// BasisPointMax scales bin step basis points.
	BasisPointMax = 10_000

	// DefaultRelativeBinLeft and DefaultRelativeBinRight are the form defaults.
	DefaultRelativeBinLeft  = -5
	DefaultRelativeBinRight = 5

	// DefaultPoolLimit is how many pools are listed when no limit is given.
	DefaultPoolLimit = 20

	// getMultipleAccounts accepts at most 100 keys per request.
	maxAccountsPerRequest = 100
	// concurrent pool decodes during listing
	poolFetchConcurrency = 8
)

// Anchor discriminators.
var (
	pairDiscriminator     = accountDiscriminator("Pair")
	positionDiscriminator = accountDiscriminator("Position")

	createPositionDiscriminator     = instructionDiscriminator("create_position")
	initializeBinArrayDiscriminator = instructionDiscriminator("initialize_bin_array")
)

func accountDiscriminator(name string) [8]byte {
	return hashPrefix("account:" + name)
}

func instructionDiscriminator(name string) [8]byte {
	return hashPrefix("global:" + name)
}

func hashPrefix(preimage string) [8]byte {
	sum := sha256.Sum256([]byte(preimage))
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}
