package crypto

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const (
	// DigestLength is the size of a Keccak-256 digest
	DigestLength = common.HashLength

	// CompactSignatureLength is the size of r || s
	CompactSignatureLength = 64

	// SignatureLength is the recovery byte followed by the compact signature
	SignatureLength = 1 + CompactSignatureLength

	// MaxRecoveryID is the largest recovery id secp256k1 can produce
	MaxRecoveryID = 3
)

type PublicKeyFormat string

func (f PublicKeyFormat) String() string {
	return string(f)
}

const (
	PublicKeyFormatCompressed   PublicKeyFormat = "compressed"
	PublicKeyFormatUncompressed PublicKeyFormat = "uncompressed"
)

// HashMessage returns keccak256(message). This is legacy Keccak, not NIST SHA3-256.
func HashMessage(message []byte) common.Hash {
	return ethcrypto.Keccak256Hash(message)
}

// DecodeHex decodes a hex string, with or without a 0x prefix
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("hex string is empty")
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}

// EncodeHex returns lowercase hex without a 0x prefix
func EncodeHex(b []byte) string {
	return common.Bytes2Hex(b)
}

// ParsePrivateKey loads a raw 32 byte secp256k1 scalar
func ParsePrivateKey(raw []byte) (*ecdsa.PrivateKey, error) {
	key, err := ethcrypto.ToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("error loading private key: %w", err)
	}
	return key, nil
}

// DerivePublicKey serializes the public key of priv in the requested format
func DerivePublicKey(priv *ecdsa.PrivateKey, format PublicKeyFormat) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("private key is nil")
	}
	pub := &priv.PublicKey
	return MarshalPublicKey(pub, format)
}

// MarshalPublicKey serializes pub in the requested format
func MarshalPublicKey(pub *ecdsa.PublicKey, format PublicKeyFormat) ([]byte, error) {
	switch format {
	case PublicKeyFormatCompressed:
		return ethcrypto.CompressPubkey(pub), nil
	case PublicKeyFormatUncompressed:
		return ethcrypto.FromECDSAPub(pub), nil
	default:
		return nil, fmt.Errorf("unsupported public key format: %s", format)
	}
}

// ParsePublicKey accepts a 33 byte compressed or 65 byte uncompressed point
func ParsePublicKey(raw []byte) (*ecdsa.PublicKey, error) {
	switch len(raw) {
	case 33:
		return ethcrypto.DecompressPubkey(raw)
	case 65:
		return ethcrypto.UnmarshalPubkey(raw)
	default:
		return nil, fmt.Errorf("invalid public key length: %d", len(raw))
	}
}

// PublicKeyFormatOf reports how raw is encoded. raw must be a valid curve point.
func PublicKeyFormatOf(raw []byte) (PublicKeyFormat, error) {
	if _, err := ParsePublicKey(raw); err != nil {
		return "", err
	}
	if len(raw) == 33 {
		return PublicKeyFormatCompressed, nil
	}
	return PublicKeyFormatUncompressed, nil
}

// SignDigest signs a 32 byte digest. The nonce is derived per RFC 6979 and s is
// normalized to the lower half of the curve order.
func SignDigest(digest []byte, priv *ecdsa.PrivateKey) (byte, []byte, error) {
	if len(digest) != DigestLength {
		return 0, nil, fmt.Errorf("digest must be %d bytes, got %d", DigestLength, len(digest))
	}
	if priv == nil {
		return 0, nil, fmt.Errorf("private key is nil")
	}

	// ethcrypto returns r || s || v
	sig, err := ethcrypto.Sign(digest, priv)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to sign digest: %w", err)
	}
	return sig[CompactSignatureLength], sig[:CompactSignatureLength], nil
}

// EncodeSignature lays out recoveryID || compact
func EncodeSignature(recoveryID byte, compact []byte) ([]byte, error) {
	if len(compact) != CompactSignatureLength {
		return nil, fmt.Errorf("compact signature must be %d bytes, got %d", CompactSignatureLength, len(compact))
	}
	if recoveryID > MaxRecoveryID {
		return nil, fmt.Errorf("invalid recovery id: %d", recoveryID)
	}
	out := make([]byte, 0, SignatureLength)
	out = append(out, recoveryID)
	return append(out, compact...), nil
}

// DecodeSignature splits recoveryID || compact
func DecodeSignature(sig []byte) (byte, []byte, error) {
	if len(sig) != SignatureLength {
		return 0, nil, fmt.Errorf("invalid signature length: expected %d bytes, got %d", SignatureLength, len(sig))
	}
	if sig[0] > MaxRecoveryID {
		return 0, nil, fmt.Errorf("invalid recovery id: %d", sig[0])
	}
	compact := make([]byte, CompactSignatureLength)
	copy(compact, sig[1:])
	return sig[0], compact, nil
}

// VerifySignature checks a recovery-first signature over digest against pub
func VerifySignature(pub, digest, sig []byte) bool {
	_, compact, err := DecodeSignature(sig)
	if err != nil {
		return false
	}
	if len(digest) != DigestLength {
		return false
	}
	return ethcrypto.VerifySignature(pub, digest, compact)
}

// RecoverPublicKey recovers the signer of digest from a recovery-first signature
func RecoverPublicKey(digest, sig []byte, format PublicKeyFormat) ([]byte, error) {
	recoveryID, compact, err := DecodeSignature(sig)
	if err != nil {
		return nil, err
	}
	if len(digest) != DigestLength {
		return nil, fmt.Errorf("digest must be %d bytes, got %d", DigestLength, len(digest))
	}

	// back to the r || s || v layout ethcrypto expects
	rsv := make([]byte, 0, SignatureLength)
	rsv = append(rsv, compact...)
	rsv = append(rsv, recoveryID)

	pub, err := ethcrypto.SigToPub(digest, rsv)
	if err != nil {
		return nil, fmt.Errorf("failed to recover public key: %w", err)
	}
	return MarshalPublicKey(pub, format)
}
