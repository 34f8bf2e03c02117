package signer

import "github.com/Layr-Labs/demo-wallets-go/pkg/types"

type ISigner interface {
	// Sign hashes message with Keccak-256 and signs the digest with username's key.
	Sign(username string, message []byte) (*types.SignedMessage, error)

	// Verify checks a hex signature produced by Sign against username's recomputed public key.
	Verify(username string, message []byte, signatureHex string) (bool, error)
}
