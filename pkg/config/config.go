package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for wallet configuration
const (
	EnvWalletsAccountSource  = "WALLETS_ACCOUNT_SOURCE"
	EnvWalletsAccountsFile   = "WALLETS_ACCOUNTS_FILE"
	EnvWalletsBadgerPath     = "WALLETS_BADGER_PATH"
	EnvWalletsRedisAddress   = "WALLETS_REDIS_ADDRESS"
	EnvWalletsRedisPassword  = "WALLETS_REDIS_PASSWORD"
	EnvWalletsRedisDB        = "WALLETS_REDIS_DB"
	EnvWalletsRedisKeyPrefix = "WALLETS_REDIS_KEY_PREFIX"
	EnvWalletsDebug          = "WALLETS_DEBUG"
)

type AccountSourceType string

func (a AccountSourceType) String() string {
	return string(a)
}

const (
	AccountSourceMemory AccountSourceType = "memory" // built-in demo accounts
	AccountSourceFile   AccountSourceType = "file"
	AccountSourceBadger AccountSourceType = "badger"
	AccountSourceRedis  AccountSourceType = "redis"
)

func GetSupportedAccountSources() []AccountSourceType {
	return []AccountSourceType{
		AccountSourceMemory,
		AccountSourceFile,
		AccountSourceBadger,
		AccountSourceRedis,
	}
}

// GetSupportedAccountSourcesString returns supported sources for CLI help
func GetSupportedAccountSourcesString() string {
	names := make([]string, 0, len(GetSupportedAccountSources()))
	for _, s := range GetSupportedAccountSources() {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}

type RedisConfig struct {
	Address   string `json:"address" yaml:"address"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"keyPrefix" yaml:"keyPrefix"`
}

// WalletsConfig selects where the account table comes from
type WalletsConfig struct {
	AccountSource AccountSourceType `json:"accountSource" yaml:"accountSource"`

	// Source specific settings; only the one matching AccountSource is read
	AccountsFile string       `json:"accountsFile" yaml:"accountsFile"`
	BadgerPath   string       `json:"badgerPath" yaml:"badgerPath"`
	Redis        *RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`

	Debug bool `json:"debug" yaml:"debug"`
}

// NewDefaultWalletsConfig uses the built-in demo accounts
func NewDefaultWalletsConfig() *WalletsConfig {
	return &WalletsConfig{
		AccountSource: AccountSourceMemory,
	}
}

func (c *WalletsConfig) Validate() error {
	var allErrors field.ErrorList

	switch c.AccountSource {
	case AccountSourceMemory:
	case AccountSourceFile:
		if c.AccountsFile == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("accountsFile"), "accountsFile is required for the file source"))
		} else {
			switch strings.ToLower(filepath.Ext(c.AccountsFile)) {
			case ".json", ".yaml", ".yml":
			default:
				allErrors = append(allErrors, field.Invalid(field.NewPath("accountsFile"), c.AccountsFile, "must be a .json, .yaml or .yml file"))
			}
		}
	case AccountSourceBadger:
		if c.BadgerPath == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("badgerPath"), "badgerPath is required for the badger source"))
		}
	case AccountSourceRedis:
		if c.Redis == nil {
			allErrors = append(allErrors, field.Required(field.NewPath("redis"), "redis config is required for the redis source"))
		} else {
			if c.Redis.Address == "" {
				allErrors = append(allErrors, field.Required(field.NewPath("redis", "address"), "address is required"))
			}
			if c.Redis.DB < 0 || c.Redis.DB > 15 {
				allErrors = append(allErrors, field.Invalid(field.NewPath("redis", "db"), c.Redis.DB, "must be between 0-15"))
			}
		}
	default:
		allErrors = append(allErrors, field.NotSupported(
			field.NewPath("accountSource"),
			c.AccountSource,
			strings.Split(GetSupportedAccountSourcesString(), ", "),
		))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// String renders the config for logs; the redis password is never included
func (c *WalletsConfig) String() string {
	switch c.AccountSource {
	case AccountSourceFile:
		return fmt.Sprintf("source=%s file=%s", c.AccountSource, c.AccountsFile)
	case AccountSourceBadger:
		return fmt.Sprintf("source=%s path=%s", c.AccountSource, c.BadgerPath)
	case AccountSourceRedis:
		addr := ""
		if c.Redis != nil {
			addr = c.Redis.Address
		}
		return fmt.Sprintf("source=%s address=%s", c.AccountSource, addr)
	default:
		return fmt.Sprintf("source=%s", c.AccountSource)
	}
}
