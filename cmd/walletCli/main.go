package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/Layr-Labs/demo-wallets-go/pkg/accountSource/file"
	"github.com/Layr-Labs/demo-wallets-go/pkg/accounts"
	"github.com/Layr-Labs/demo-wallets-go/pkg/config"
	"github.com/Layr-Labs/demo-wallets-go/pkg/crypto"
	"github.com/Layr-Labs/demo-wallets-go/pkg/logger"
	"github.com/Layr-Labs/demo-wallets-go/pkg/wallets"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "wallet-cli",
		Usage: "Look up demo accounts and sign messages with their keys",
		Description: `Signs messages on behalf of demo accounts.

Messages are hashed with Keccak-256 and signed with secp256k1. Signatures are
printed as hex(recoveryId || r || s). The "address" of an account is the hex of
its raw public key, not an Ethereum address.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "account-source",
				Usage:   fmt.Sprintf("Where accounts are loaded from: %s", config.GetSupportedAccountSourcesString()),
				Value:   config.AccountSourceMemory.String(),
				EnvVars: []string{config.EnvWalletsAccountSource},
			},
			&cli.StringFlag{
				Name:    "accounts-file",
				Usage:   "JSON or YAML accounts file (file source)",
				EnvVars: []string{config.EnvWalletsAccountsFile},
			},
			&cli.StringFlag{
				Name:    "badger-path",
				Usage:   "Badger data directory (badger source)",
				EnvVars: []string{config.EnvWalletsBadgerPath},
			},
			&cli.StringFlag{
				Name:    "redis-address",
				Usage:   "Redis host:port (redis source)",
				Value:   "localhost:6379",
				EnvVars: []string{config.EnvWalletsRedisAddress},
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password (redis source)",
				EnvVars: []string{config.EnvWalletsRedisPassword},
			},
			&cli.IntFlag{
				Name:    "redis-db",
				Usage:   "Redis database number (redis source)",
				EnvVars: []string{config.EnvWalletsRedisDB},
			},
			&cli.StringFlag{
				Name:    "redis-key-prefix",
				Usage:   "Prefix for every Redis key (redis source)",
				EnvVars: []string{config.EnvWalletsRedisKeyPrefix},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				EnvVars: []string{config.EnvWalletsDebug},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "users",
				Usage:  "List account names",
				Action: usersCommand,
			},
			{
				Name:      "address",
				Usage:     "Print the hex public key of an account",
				ArgsUsage: "<user>",
				Action:    addressCommand,
			},
			{
				Name:      "pubkey",
				Usage:     "Print the uppercase hex public key of an account",
				ArgsUsage: "<user>",
				Action:    pubkeyCommand,
			},
			{
				Name:   "hash",
				Usage:  "Print keccak256 of a message",
				Flags:  messageFlags(),
				Action: hashCommand,
			},
			{
				Name:  "sign",
				Usage: "Sign a message as an account",
				Flags: append(messageFlags(),
					&cli.StringFlag{
						Name:     "user",
						Usage:    "Account name",
						Required: true,
					},
				),
				Action: signCommand,
			},
			{
				Name:  "verify",
				Usage: "Verify a signature produced by sign",
				Flags: append(messageFlags(),
					&cli.StringFlag{
						Name:     "user",
						Usage:    "Account name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "signature",
						Usage:    "Hex signature (recovery byte first)",
						Required: true,
					},
				),
				Action: verifyCommand,
			},
			{
				Name:  "import",
				Usage: "Copy accounts from a JSON/YAML file into the configured file, badger or redis source",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Accounts file to import",
						Required: true,
					},
				},
				Action: importCommand,
			},
		},
	}
}

func messageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "message",
			Usage: "Message text, UTF-8 encoded before hashing",
		},
		&cli.StringFlag{
			Name:  "message-hex",
			Usage: "Message as hex bytes",
		},
	}
}

func parseConfig(c *cli.Context) (*config.WalletsConfig, error) {
	cfg := &config.WalletsConfig{
		AccountSource: config.AccountSourceType(c.String("account-source")),
		AccountsFile:  c.String("accounts-file"),
		BadgerPath:    c.String("badger-path"),
		Debug:         c.Bool("debug"),
	}
	if cfg.AccountSource == config.AccountSourceRedis {
		cfg.Redis = &config.RedisConfig{
			Address:   c.String("redis-address"),
			Password:  c.String("redis-password"),
			DB:        c.Int("redis-db"),
			KeyPrefix: c.String("redis-key-prefix"),
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("debug")})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l, nil
}

// createWallets builds the wallets from CLI context
func createWallets(c *cli.Context) (*wallets.Wallets, error) {
	cfg, err := parseConfig(c)
	if err != nil {
		return nil, err
	}
	l, err := newLogger(c)
	if err != nil {
		return nil, err
	}
	return wallets.NewWalletsFromConfig(c.Context, cfg, l)
}

func readMessage(c *cli.Context) ([]byte, error) {
	text := c.String("message")
	hexMsg := c.String("message-hex")

	switch {
	case c.IsSet("message") && c.IsSet("message-hex"):
		return nil, fmt.Errorf("--message and --message-hex are mutually exclusive")
	case c.IsSet("message-hex"):
		if hexMsg == "" || hexMsg == "0x" {
			return []byte{}, nil
		}
		return crypto.DecodeHex(hexMsg)
	default:
		return []byte(text), nil
	}
}

func requireUserArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one <user> argument")
	}
	return c.Args().First(), nil
}

func usersCommand(c *cli.Context) error {
	w, err := createWallets(c)
	if err != nil {
		return err
	}
	for _, u := range w.Users() {
		fmt.Fprintln(c.App.Writer, u)
	}
	return nil
}

func addressCommand(c *cli.Context) error {
	user, err := requireUserArg(c)
	if err != nil {
		return err
	}
	w, err := createWallets(c)
	if err != nil {
		return err
	}
	address, err := w.GetAddress(user)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, address)
	return nil
}

func pubkeyCommand(c *cli.Context) error {
	user, err := requireUserArg(c)
	if err != nil {
		return err
	}
	w, err := createWallets(c)
	if err != nil {
		return err
	}
	pub, err := w.GetHexPubKey(user)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, pub)
	return nil
}

func hashCommand(c *cli.Context) error {
	message, err := readMessage(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, crypto.EncodeHex(crypto.HashMessage(message).Bytes()))
	return nil
}

func signCommand(c *cli.Context) error {
	message, err := readMessage(c)
	if err != nil {
		return err
	}
	w, err := createWallets(c)
	if err != nil {
		return err
	}

	signed, err := w.Sign(c.String("user"), message)
	if err != nil {
		return fmt.Errorf("failed to sign message: %w", err)
	}

	out, err := json.MarshalIndent(signed, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}

func verifyCommand(c *cli.Context) error {
	message, err := readMessage(c)
	if err != nil {
		return err
	}
	w, err := createWallets(c)
	if err != nil {
		return err
	}

	ok, err := w.Verify(c.String("user"), message, c.String("signature"))
	if err != nil {
		return fmt.Errorf("failed to verify signature: %w", err)
	}
	if !ok {
		return fmt.Errorf("signature is not valid")
	}
	fmt.Fprintln(c.App.Writer, "signature is valid")
	return nil
}

func importCommand(c *cli.Context) error {
	cfg, err := parseConfig(c)
	if err != nil {
		return err
	}
	// the memory source is rebuilt from the demo set on every run
	if cfg.AccountSource == config.AccountSourceMemory {
		return fmt.Errorf("cannot import into the %s source: nothing would be persisted, use file, badger or redis", cfg.AccountSource)
	}
	l, err := newLogger(c)
	if err != nil {
		return err
	}

	ctx := c.Context

	from, err := file.NewFileAccountSource(c.String("from"), l)
	if err != nil {
		return err
	}
	defer func() { _ = from.Close() }()

	accts, err := from.LoadAccounts(ctx)
	if err != nil {
		return fmt.Errorf("refusing to import: %w", err)
	}
	// validate before writing anything
	table, err := accounts.NewTable(accts)
	if err != nil {
		return fmt.Errorf("refusing to import: %w", err)
	}

	dst, err := wallets.NewAccountSource(cfg, l)
	if err != nil {
		return err
	}
	defer func() { _ = dst.Close() }()

	if err := dst.StoreAccounts(ctx, accts); err != nil {
		return fmt.Errorf("failed to import accounts: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "imported %d accounts into %s source\n", table.Len(), cfg.AccountSource)
	return nil
}
