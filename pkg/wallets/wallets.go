package wallets

import (
	"fmt"
	"strings"

	"github.com/Layr-Labs/demo-wallets-go/pkg/accounts"
	"github.com/Layr-Labs/demo-wallets-go/pkg/crypto"
	"github.com/Layr-Labs/demo-wallets-go/pkg/signer"
	"github.com/Layr-Labs/demo-wallets-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
)

// Wallets is the lookup and signing surface over a fixed account table.
// All methods are safe for concurrent use.
type Wallets struct {
	table  *accounts.Table
	signer signer.ISigner
}

func NewWallets(table *accounts.Table, s signer.ISigner) (*Wallets, error) {
	if table == nil {
		return nil, fmt.Errorf("account table cannot be nil")
	}
	if s == nil {
		return nil, fmt.Errorf("signer cannot be nil")
	}
	return &Wallets{
		table:  table,
		signer: s,
	}, nil
}

// Users lists every account name in table order
func (w *Wallets) Users() []string {
	return w.table.Users()
}

// GetAddress returns the lowercase hex of the user's stored public key.
// This is the raw key, not a keccak derived Ethereum address.
// An empty user yields ("", nil).
func (w *Wallets) GetAddress(user string) (string, error) {
	if user == "" {
		return "", nil
	}
	pub, err := w.table.GetPublicKey(user)
	if err != nil {
		return "", err
	}
	return crypto.EncodeHex(pub), nil
}

// GetHexPubKey is GetAddress uppercased
func (w *Wallets) GetHexPubKey(user string) (string, error) {
	address, err := w.GetAddress(user)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(address), nil
}

// Sign signs keccak256(message) with the user's private key. Unlike GetAddress an
// empty user is an error.
func (w *Wallets) Sign(username string, message []byte) (*types.SignedMessage, error) {
	return w.signer.Sign(username, message)
}

func (w *Wallets) Verify(username string, message []byte, signatureHex string) (bool, error) {
	return w.signer.Verify(username, message, signatureHex)
}

func (w *Wallets) HashMessage(message []byte) common.Hash {
	return crypto.HashMessage(message)
}
