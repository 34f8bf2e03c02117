package wallets

import (
	"context"
	"fmt"

	"github.com/Layr-Labs/demo-wallets-go/pkg/accountSource"
	"github.com/Layr-Labs/demo-wallets-go/pkg/accountSource/badger"
	"github.com/Layr-Labs/demo-wallets-go/pkg/accountSource/file"
	"github.com/Layr-Labs/demo-wallets-go/pkg/accountSource/memory"
	"github.com/Layr-Labs/demo-wallets-go/pkg/accountSource/redis"
	"github.com/Layr-Labs/demo-wallets-go/pkg/accounts"
	"github.com/Layr-Labs/demo-wallets-go/pkg/config"
	"github.com/Layr-Labs/demo-wallets-go/pkg/signer/inMemorySigner"
	"go.uber.org/zap"
)

// NewAccountSource opens the account source selected by cfg. The caller closes it.
func NewAccountSource(cfg *config.WalletsConfig, logger *zap.Logger) (accountSource.IWritableAccountSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("wallets config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid wallets config: %w", err)
	}

	var (
		src accountSource.IWritableAccountSource
		err error
	)
	switch cfg.AccountSource {
	case config.AccountSourceMemory:
		src = memory.NewDefaultMemoryAccountSource()
	case config.AccountSourceFile:
		src, err = file.NewFileAccountSource(cfg.AccountsFile, logger)
	case config.AccountSourceBadger:
		src, err = badger.NewBadgerAccountSource(cfg.BadgerPath, logger)
	case config.AccountSourceRedis:
		src, err = redis.NewRedisAccountSource(cfg.Redis, logger)
	default:
		return nil, fmt.Errorf("unsupported account source: %s", cfg.AccountSource)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s account source: %w", cfg.AccountSource, err)
	}
	return src, nil
}

// LoadTable reads every account from src once and freezes it into a Table
func LoadTable(ctx context.Context, src accountSource.IAccountSource) (*accounts.Table, error) {
	accts, err := src.LoadAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	return accounts.NewTable(accts)
}

// NewWalletsFromConfig loads the account table from the configured source and
// wires an in-memory signer over it. The source is closed before returning;
// the table is immutable from then on.
func NewWalletsFromConfig(ctx context.Context, cfg *config.WalletsConfig, logger *zap.Logger) (*Wallets, error) {
	src, err := NewAccountSource(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			logger.Sugar().Warnw("Failed to close account source", "error", cerr)
		}
	}()

	return NewWalletsFromSource(ctx, src, cfg, logger)
}

// NewWalletsFromSource is NewWalletsFromConfig for an already open source
func NewWalletsFromSource(
	ctx context.Context,
	src accountSource.IAccountSource,
	cfg *config.WalletsConfig,
	logger *zap.Logger,
) (*Wallets, error) {
	if cfg == nil {
		return nil, fmt.Errorf("wallets config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid wallets config: %w", err)
	}

	table, err := LoadTable(ctx, src)
	if err != nil {
		return nil, err
	}

	s, err := inMemorySigner.NewInMemorySigner(table, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	logger.Sugar().Infow("Wallets loaded", "accounts", table.Len(), "config", cfg.String())
	return NewWallets(table, s)
}
