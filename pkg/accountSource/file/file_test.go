package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Layr-Labs/demo-wallets-go/pkg/accountSource/memory"
	"github.com/Layr-Labs/demo-wallets-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlAccounts = `
- name: bob
  public: 02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5
  private: "0000000000000000000000000000000000000000000000000000000000000002"
- name: alice
  public: 0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798
  private: "0000000000000000000000000000000000000000000000000000000000000001"
`

const jsonAccounts = `[
  {"name": "alice", "public": "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", "private": "0000000000000000000000000000000000000000000000000000000000000001"}
]`

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestFileAccountSource_YAML(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	src, err := NewFileAccountSource(writeFile(t, "accounts.yaml", yamlAccounts), testLogger)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	accounts, err := src.LoadAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	// file order is preserved
	assert.Equal(t, "bob", accounts[0].Name)
	assert.Equal(t, "alice", accounts[1].Name)
	assert.Equal(t, "0000000000000000000000000000000000000000000000000000000000000001", accounts[1].PrivateKey)
}

func TestFileAccountSource_JSON(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	src, err := NewFileAccountSource(writeFile(t, "accounts.json", jsonAccounts), testLogger)
	require.NoError(t, err)

	accounts, err := src.LoadAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "alice", accounts[0].Name)
	assert.Equal(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", accounts[0].PublicKey)
}

func TestFileAccountSource_StoreRoundTrip(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	ctx := context.Background()

	for _, name := range []string{"accounts.json", "accounts.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			src, err := NewFileAccountSource(path, testLogger)
			require.NoError(t, err)

			require.NoError(t, src.StoreAccounts(ctx, memory.DefaultDemoAccounts()))

			loaded, err := src.LoadAccounts(ctx)
			require.NoError(t, err)
			assert.Equal(t, memory.DefaultDemoAccounts(), loaded)
		})
	}
}

func TestFileAccountSource_Errors(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	_, err := NewFileAccountSource("", testLogger)
	assert.Error(t, err)

	_, err = NewFileAccountSource("accounts.toml", testLogger)
	assert.Error(t, err)

	src, err := NewFileAccountSource(filepath.Join(t.TempDir(), "missing.json"), testLogger)
	require.NoError(t, err)
	_, err = src.LoadAccounts(context.Background())
	assert.Error(t, err)

	src, err = NewFileAccountSource(writeFile(t, "broken.json", "{not json"), testLogger)
	require.NoError(t, err)
	_, err = src.LoadAccounts(context.Background())
	assert.Error(t, err)
}

func TestFileAccountSource_EmptyFile(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	src, err := NewFileAccountSource(writeFile(t, "empty.yaml", ""), testLogger)
	require.NoError(t, err)

	accounts, err := src.LoadAccounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
}
