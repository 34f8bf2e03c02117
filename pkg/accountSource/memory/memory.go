package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Layr-Labs/demo-wallets-go/pkg/accountSource"
	"github.com/Layr-Labs/demo-wallets-go/pkg/types"
)

// DefaultDemoAccounts returns the built-in demo account set.
// These keys are public knowledge and must never hold real funds.
func DefaultDemoAccounts() []*types.Account {
	return []*types.Account{
		{
			Name:       "alice",
			PublicKey:  "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
			PrivateKey: "0000000000000000000000000000000000000000000000000000000000000001",
		},
		{
			Name:       "bob",
			PublicKey:  "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5",
			PrivateKey: "0000000000000000000000000000000000000000000000000000000000000002",
		},
		{
			Name:       "charlie",
			PublicKey:  "02f9308a019258c31049344f85f89d5229b531c845836f99b08601f113bce036f9",
			PrivateKey: "0000000000000000000000000000000000000000000000000000000000000003",
		},
	}
}

// MemoryAccountSource holds accounts in process memory.
// Deep copies on the way in and out so callers cannot mutate stored accounts.
type MemoryAccountSource struct {
	mu       sync.RWMutex
	accounts []*types.Account
	closed   bool
}

var _ accountSource.IWritableAccountSource = (*MemoryAccountSource)(nil)

func NewMemoryAccountSource(accounts []*types.Account) *MemoryAccountSource {
	return &MemoryAccountSource{
		accounts: accountSource.CloneAccounts(accounts),
	}
}

// NewDefaultMemoryAccountSource is a memory source preloaded with DefaultDemoAccounts
func NewDefaultMemoryAccountSource() *MemoryAccountSource {
	return NewMemoryAccountSource(DefaultDemoAccounts())
}

func (m *MemoryAccountSource) LoadAccounts(_ context.Context) ([]*types.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("account source is closed")
	}
	return accountSource.CloneAccounts(m.accounts), nil
}

func (m *MemoryAccountSource) StoreAccounts(_ context.Context, accounts []*types.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("account source is closed")
	}
	m.accounts = accountSource.CloneAccounts(accounts)
	return nil
}

func (m *MemoryAccountSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}
