package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/Layr-Labs/demo-wallets-go/pkg/accountSource"
	"github.com/Layr-Labs/demo-wallets-go/pkg/types"
	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Key layout
const (
	keyPrefixAccount     = "account:"
	keyAccountIndex      = "accounts:index"
	keySchemaVersion     = "metadata:schema_version"
	currentSchemaVersion = "v1"
)

// BadgerAccountSource keeps the account table in an embedded Badger database.
// Each account is a JSON value under account:<name>; accounts:index holds the
// ordered name list so USERS keeps its order across restarts.
type BadgerAccountSource struct {
	db     *badgerdb.DB
	logger *zap.Logger
	mu     sync.RWMutex
	closed bool
}

var _ accountSource.IWritableAccountSource = (*BadgerAccountSource)(nil)

func NewBadgerAccountSource(dataPath string, logger *zap.Logger) (*BadgerAccountSource, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = newBadgerLoggerAdapter(logger)
	opts.SyncWrites = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", absPath, err)
	}

	bs := &BadgerAccountSource{
		db:     db,
		logger: logger,
	}

	if err := bs.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Sugar().Infow("Badger account source initialized", "path", absPath)
	return bs, nil
}

func (b *BadgerAccountSource) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		}
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		var existingVersion string
		err = item.Value(func(val []byte) error {
			existingVersion = string(val)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to read schema version value: %w", err)
		}

		if existingVersion != currentSchemaVersion {
			return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
		}
		return nil
	})
}

func (b *BadgerAccountSource) LoadAccounts(_ context.Context) ([]*types.Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("account source is closed")
	}

	accounts := make([]*types.Account, 0)
	err := b.db.View(func(txn *badgerdb.Txn) error {
		names, err := readIndex(txn)
		if err != nil {
			return err
		}

		for _, name := range names {
			item, err := txn.Get([]byte(keyPrefixAccount + name))
			if err != nil {
				return errors.Wrapf(err, "account %s is indexed but missing", name)
			}

			var acct types.Account
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &acct)
			})
			if err != nil {
				return errors.Wrapf(err, "failed to decode account %s", name)
			}
			accounts = append(accounts, &acct)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	return accounts, nil
}

// StoreAccounts replaces every stored account in a single transaction
func (b *BadgerAccountSource) StoreAccounts(_ context.Context, accounts []*types.Account) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("account source is closed")
	}

	names := make([]string, 0, len(accounts))
	for i, acct := range accounts {
		if acct == nil {
			return fmt.Errorf("account at index %d is nil", i)
		}
		names = append(names, acct.Name)
	}
	indexData, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to marshal account index: %w", err)
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		previous, err := readIndex(txn)
		if err != nil {
			return err
		}
		for _, name := range previous {
			if err := txn.Delete([]byte(keyPrefixAccount + name)); err != nil {
				return errors.Wrapf(err, "failed to delete account %s", name)
			}
		}

		for _, acct := range accounts {
			data, err := json.Marshal(acct)
			if err != nil {
				return errors.Wrapf(err, "failed to marshal account %s", acct.Name)
			}
			if err := txn.Set([]byte(keyPrefixAccount+acct.Name), data); err != nil {
				return errors.Wrapf(err, "failed to store account %s", acct.Name)
			}
		}
		return txn.Set([]byte(keyAccountIndex), indexData)
	})
}

func (b *BadgerAccountSource) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger database: %w", err)
	}
	return nil
}

func readIndex(txn *badgerdb.Txn) ([]string, error) {
	item, err := txn.Get([]byte(keyAccountIndex))
	if err == badgerdb.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read account index: %w", err)
	}

	var names []string
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &names)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode account index: %w", err)
	}
	return names, nil
}
