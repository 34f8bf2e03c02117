package accounts

import (
	"errors"
	"fmt"

	"github.com/Layr-Labs/demo-wallets-go/pkg/crypto"
	"github.com/Layr-Labs/demo-wallets-go/pkg/types"
)

var (
	// ErrUnknownUser is returned when a non-empty user name is not in the table
	ErrUnknownUser = errors.New("unknown user")

	// ErrEmptyUser is returned by operations that cannot proceed without a user
	ErrEmptyUser = errors.New("user name is empty")

	// ErrDuplicateUser is returned when the account source lists a name twice
	ErrDuplicateUser = errors.New("duplicate user")
)

type keyPair struct {
	publicKey  []byte
	privateKey []byte
	format     crypto.PublicKeyFormat
}

// Table is an immutable, ordered set of accounts keyed by user name.
// It holds no locks; nothing mutates it after NewTable returns.
type Table struct {
	users []string
	keys  map[string]*keyPair
}

// NewTable decodes every account once and preserves the source order for Users.
// Public keys must be valid secp256k1 points, compressed or uncompressed; accounts
// may mix both encodings.
func NewTable(accounts []*types.Account) (*Table, error) {
	t := &Table{
		users: make([]string, 0, len(accounts)),
		keys:  make(map[string]*keyPair, len(accounts)),
	}

	for i, acct := range accounts {
		if acct == nil {
			return nil, fmt.Errorf("account at index %d is nil", i)
		}
		if acct.Name == "" {
			return nil, fmt.Errorf("account at index %d: %w", i, ErrEmptyUser)
		}
		if _, exists := t.keys[acct.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUser, acct.Name)
		}

		pub, err := crypto.DecodeHex(acct.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("account %s: public key: %w", acct.Name, err)
		}
		format, err := crypto.PublicKeyFormatOf(pub)
		if err != nil {
			return nil, fmt.Errorf("account %s: public key: %w", acct.Name, err)
		}
		priv, err := crypto.DecodeHex(acct.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("account %s: private key: %w", acct.Name, err)
		}

		t.users = append(t.users, acct.Name)
		t.keys[acct.Name] = &keyPair{publicKey: pub, privateKey: priv, format: format}
	}

	return t, nil
}

// Users returns the account names in source order
func (t *Table) Users() []string {
	out := make([]string, len(t.users))
	copy(out, t.users)
	return out
}

func (t *Table) Len() int {
	return len(t.users)
}

func (t *Table) Has(user string) bool {
	_, ok := t.keys[user]
	return ok
}

// GetPublicKey returns the stored public key bytes for user.
// An empty user yields (nil, nil).
func (t *Table) GetPublicKey(user string) ([]byte, error) {
	if user == "" {
		return nil, nil
	}
	kp, err := t.lookup(user)
	if err != nil {
		return nil, err
	}
	return cloneBytes(kp.publicKey), nil
}

// GetPrivateKey returns the stored private key bytes for user.
// An empty user yields (nil, nil).
func (t *Table) GetPrivateKey(user string) ([]byte, error) {
	if user == "" {
		return nil, nil
	}
	kp, err := t.lookup(user)
	if err != nil {
		return nil, err
	}
	return cloneBytes(kp.privateKey), nil
}

// GetPublicKeyFormat returns the encoding of the stored public key for user,
// so keys recomputed from the private key can be rendered the same way.
// An empty user yields ("", nil).
func (t *Table) GetPublicKeyFormat(user string) (crypto.PublicKeyFormat, error) {
	if user == "" {
		return "", nil
	}
	kp, err := t.lookup(user)
	if err != nil {
		return "", err
	}
	return kp.format, nil
}

func (t *Table) lookup(user string) (*keyPair, error) {
	kp, ok := t.keys[user]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, user)
	}
	return kp, nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
