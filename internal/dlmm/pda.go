package dlmm

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// DerivePositionAddress returns the position PDA owned by a position mint.
func DerivePositionAddress(positionMint, programID solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("position"), positionMint.Bytes()},
		programID,
	)
	return addr, err
}

// DeriveBinArrayAddress returns the PDA of the bin array with the given index.
func DeriveBinArrayAddress(pair solana.PublicKey, index int32, programID solana.PublicKey) (solana.PublicKey, error) {
	idx := make([]byte, 4)
	binary.LittleEndian.PutUint32(idx, uint32(index))
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("bin_array"), pair.Bytes(), idx},
		programID,
	)
	return addr, err
}

// DeriveEventAuthority returns the program's anchor event authority.
func DeriveEventAuthority(programID solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte("__event_authority")}, programID)
	return addr, err
}

// DerivePositionTokenAccount returns the user's Token-2022 associated account
// for a position mint.
func DerivePositionTokenAccount(owner, positionMint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{owner.Bytes(), Token2022ProgramID.Bytes(), positionMint.Bytes()},
		AssociatedTokenProgramID,
	)
	return addr, err
}

// BinArrayIndex returns the index of the bin array holding binID.
func BinArrayIndex(binID int32) int32 {
	q := binID / BinsPerArray
	if binID%BinsPerArray < 0 {
		q--
	}
	return q
}
