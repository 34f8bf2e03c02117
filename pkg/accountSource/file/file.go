package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Layr-Labs/demo-wallets-go/pkg/accountSource"
	"github.com/Layr-Labs/demo-wallets-go/pkg/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileAccountSource reads a list of accounts from a JSON or YAML file.
//
//   - name: alice
//     public: 0279be...
//     private: 0000...01
type FileAccountSource struct {
	path   string
	logger *zap.Logger
}

var _ accountSource.IWritableAccountSource = (*FileAccountSource)(nil)

func NewFileAccountSource(path string, logger *zap.Logger) (*FileAccountSource, error) {
	if path == "" {
		return nil, fmt.Errorf("accounts file path cannot be empty")
	}
	if _, err := formatForPath(path); err != nil {
		return nil, err
	}
	return &FileAccountSource{
		path:   path,
		logger: logger,
	}, nil
}

func (f *FileAccountSource) LoadAccounts(_ context.Context) ([]*types.Account, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read accounts file %s", f.path)
	}

	accounts, err := decodeAccounts(f.path, data)
	if err != nil {
		return nil, err
	}

	f.logger.Sugar().Debugw("Loaded accounts from file", "path", f.path, "count", len(accounts))
	return accounts, nil
}

// StoreAccounts overwrites the file in the format implied by its extension
func (f *FileAccountSource) StoreAccounts(_ context.Context, accounts []*types.Account) error {
	format, err := formatForPath(f.path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case formatJSON:
		data, err = json.MarshalIndent(accounts, "", "  ")
	case formatYAML:
		data, err = yaml.Marshal(accounts)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to encode accounts for %s", f.path)
	}

	// private keys live in this file
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return errors.Wrapf(err, "failed to write accounts file %s", f.path)
	}
	return nil
}

func (f *FileAccountSource) Close() error {
	return nil
}

type fileFormat int

const (
	formatJSON fileFormat = iota
	formatYAML
)

func formatForPath(path string) (fileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported accounts file extension: %s", filepath.Ext(path))
	}
}

func decodeAccounts(path string, data []byte) ([]*types.Account, error) {
	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}

	var accounts []*types.Account
	switch format {
	case formatJSON:
		err = json.Unmarshal(data, &accounts)
	case formatYAML:
		err = yaml.Unmarshal(data, &accounts)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode accounts file %s", path)
	}
	if accounts == nil {
		accounts = make([]*types.Account, 0)
	}
	return accounts, nil
}
