// =============================
// File: internal/dlmm/instructions.go
// =============================
package dlmm

import (
	"github.com/gagliardetto/solana-go"
)

// createPositionArgs is the Borsh payload of create_position.
type createPositionArgs struct {
	Discriminator      [8]byte
	RelativeBinIDLeft  int32
	RelativeBinIDRight int32
}

// initializeBinArrayArgs is the Borsh payload of initialize_bin_array.
type initializeBinArrayArgs struct {
	Discriminator [8]byte
	ID            uint32
}

// CreatePositionAccounts lists the accounts of create_position in program order.
type CreatePositionAccounts struct {
	Pair                 solana.PublicKey
	Position             solana.PublicKey
	PositionMint         solana.PublicKey
	PositionTokenAccount solana.PublicKey
	User                 solana.PublicKey
	EventAuthority       solana.PublicKey
	ProgramID            solana.PublicKey
}

// newCreatePositionInstruction opens an empty position over
// [active+left, active+right]. The position mint must sign.
func newCreatePositionInstruction(accts CreatePositionAccounts, left, right int32) (solana.Instruction, error) {
	data, err := encodeBorsh(createPositionArgs{
		Discriminator:      createPositionDiscriminator,
		RelativeBinIDLeft:  left,
		RelativeBinIDRight: right,
	})
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.Meta(accts.Pair),
		solana.Meta(accts.Position).WRITE(),
		solana.Meta(accts.PositionMint).WRITE().SIGNER(),
		solana.Meta(accts.PositionTokenAccount).WRITE(),
		solana.Meta(accts.User).WRITE().SIGNER(),
		solana.Meta(SystemProgramID),
		solana.Meta(Token2022ProgramID),
		solana.Meta(AssociatedTokenProgramID),
		solana.Meta(accts.EventAuthority),
		solana.Meta(accts.ProgramID),
	}

	return solana.NewInstruction(accts.ProgramID, metas, data), nil
}

// newInitializeBinArrayInstruction creates the bin array with the given index.
func newInitializeBinArrayInstruction(pair, binArray, user, programID solana.PublicKey, index int32) (solana.Instruction, error) {
	data, err := encodeBorsh(initializeBinArrayArgs{
		Discriminator: initializeBinArrayDiscriminator,
		ID:            uint32(index),
	})
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.Meta(pair),
		solana.Meta(binArray).WRITE(),
		solana.Meta(user).WRITE().SIGNER(),
		solana.Meta(SystemProgramID),
	}

	return solana.NewInstruction(programID, metas, data), nil
}
