package inMemorySigner

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/Layr-Labs/demo-wallets-go/pkg/accounts"
	"github.com/Layr-Labs/demo-wallets-go/pkg/crypto"
	"github.com/Layr-Labs/demo-wallets-go/pkg/signer"
	"github.com/Layr-Labs/demo-wallets-go/pkg/types"
	"go.uber.org/zap"
)

// InMemorySigner signs on behalf of any account in an in-memory table
type InMemorySigner struct {
	logger *zap.Logger
	table  *accounts.Table
}

var _ signer.ISigner = (*InMemorySigner)(nil)

func NewInMemorySigner(table *accounts.Table, logger *zap.Logger) (*InMemorySigner, error) {
	if table == nil {
		return nil, fmt.Errorf("account table cannot be nil")
	}
	return &InMemorySigner{
		logger: logger,
		table:  table,
	}, nil
}

// Sign returns hex(recoveryId || r || s) and the public key recomputed from the
// private key, both lowercase without a 0x prefix. The recomputed key uses the
// same encoding as the account's stored public key.
func (s *InMemorySigner) Sign(username string, message []byte) (*types.SignedMessage, error) {
	priv, format, err := s.privateKey(username)
	if err != nil {
		return nil, err
	}

	digest := crypto.HashMessage(message)

	recoveryID, compact, err := crypto.SignDigest(digest.Bytes(), priv)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message for %s: %w", username, err)
	}

	// derived from the private key, not read from the table
	publicKey, err := crypto.DerivePublicKey(priv, format)
	if err != nil {
		return nil, fmt.Errorf("failed to derive public key for %s: %w", username, err)
	}

	fullSignature, err := crypto.EncodeSignature(recoveryID, compact)
	if err != nil {
		return nil, err
	}

	s.logger.Sugar().Debugw("Signed message",
		"user", username,
		"digest", digest.Hex(),
		"recovery_id", recoveryID,
	)

	return &types.SignedMessage{
		Signature: crypto.EncodeHex(fullSignature),
		PublicKey: crypto.EncodeHex(publicKey),
	}, nil
}

func (s *InMemorySigner) Verify(username string, message []byte, signatureHex string) (bool, error) {
	priv, format, err := s.privateKey(username)
	if err != nil {
		return false, err
	}

	sig, err := crypto.DecodeHex(signatureHex)
	if err != nil {
		return false, fmt.Errorf("invalid signature: %w", err)
	}
	if _, _, err := crypto.DecodeSignature(sig); err != nil {
		return false, err
	}

	publicKey, err := crypto.DerivePublicKey(priv, format)
	if err != nil {
		return false, fmt.Errorf("failed to derive public key for %s: %w", username, err)
	}

	return crypto.VerifySignature(publicKey, crypto.HashMessage(message).Bytes(), sig), nil
}

// privateKey resolves username to its key and stored public key encoding,
// failing on an empty or unknown name
func (s *InMemorySigner) privateKey(username string) (*ecdsa.PrivateKey, crypto.PublicKeyFormat, error) {
	if username == "" {
		return nil, "", accounts.ErrEmptyUser
	}
	raw, err := s.table.GetPrivateKey(username)
	if err != nil {
		return nil, "", err
	}
	format, err := s.table.GetPublicKeyFormat(username)
	if err != nil {
		return nil, "", err
	}
	priv, err := crypto.ParsePrivateKey(raw)
	if err != nil {
		return nil, "", fmt.Errorf("account %s: %w", username, err)
	}
	return priv, format, nil
}
