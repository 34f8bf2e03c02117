package accountSource

import (
	"context"

	"github.com/Layr-Labs/demo-wallets-go/pkg/types"
)

// IAccountSource supplies the account table once at start-up.
// Implementations return accounts in a stable order; that order becomes USERS.
type IAccountSource interface {
	// LoadAccounts returns every account held by the source.
	// Returns an empty slice if the source holds none.
	LoadAccounts(ctx context.Context) ([]*types.Account, error)

	// Close releases any underlying connection or file handle.
	Close() error
}

// IWritableAccountSource is a source that can be seeded, e.g. by the import command
type IWritableAccountSource interface {
	IAccountSource

	// StoreAccounts replaces the stored account set, keeping the given order.
	StoreAccounts(ctx context.Context, accounts []*types.Account) error
}

// CloneAccounts deep copies an account slice
func CloneAccounts(accounts []*types.Account) []*types.Account {
	out := make([]*types.Account, 0, len(accounts))
	for _, a := range accounts {
		if a == nil {
			out = append(out, nil)
			continue
		}
		c := *a
		out = append(out, &c)
	}
	return out
}
