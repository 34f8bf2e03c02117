package inMemorySigner

import (
	"encoding/hex"
	"errors"
	"sync"
	"testing"

	"github.com/Layr-Labs/demo-wallets-go/pkg/accountSource/memory"
	"github.com/Layr-Labs/demo-wallets-go/pkg/accounts"
	"github.com/Layr-Labs/demo-wallets-go/pkg/crypto"
	"github.com/Layr-Labs/demo-wallets-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) (*InMemorySigner, *accounts.Table) {
	t.Helper()
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	table, err := accounts.NewTable(memory.DefaultDemoAccounts())
	require.NoError(t, err)

	s, err := NewInMemorySigner(table, testLogger)
	require.NoError(t, err)
	return s, table
}

func TestNewInMemorySigner_Invalid(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	_, err := NewInMemorySigner(nil, testLogger)
	assert.Error(t, err)
}

func TestSign_Structure(t *testing.T) {
	s, table := newTestSigner(t)
	message := []byte("hello")

	for _, user := range table.Users() {
		t.Run(user, func(t *testing.T) {
			signed, err := s.Sign(user, message)
			require.NoError(t, err)

			sig, err := hex.DecodeString(signed.Signature)
			require.NoError(t, err)
			require.Len(t, sig, 65)
			assert.LessOrEqual(t, sig[0], byte(1))

			// lowercase, no prefix
			assert.Equal(t, hex.EncodeToString(sig), signed.Signature)

			pub, err := hex.DecodeString(signed.PublicKey)
			require.NoError(t, err)
			digest := crypto.HashMessage(message).Bytes()
			assert.True(t, crypto.VerifySignature(pub, digest, sig))

			recovered, err := crypto.RecoverPublicKey(digest, sig, crypto.PublicKeyFormatCompressed)
			require.NoError(t, err)
			assert.Equal(t, pub, recovered)

			stored, err := table.GetPublicKey(user)
			require.NoError(t, err)
			assert.Equal(t, stored, pub, "recomputed key matches the table for the demo set")
		})
	}
}

func TestSign_PublicKeyFollowsStoredFormat(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	// alice stored uncompressed, bob and charlie compressed
	accts := memory.DefaultDemoAccounts()
	accts[0].PublicKey = "0479be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798" +
		"483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"
	table, err := accounts.NewTable(accts)
	require.NoError(t, err)

	s, err := NewInMemorySigner(table, testLogger)
	require.NoError(t, err)

	tests := []struct {
		user      string
		keyLength int
	}{
		{"alice", 65},
		{"bob", 33},
		{"charlie", 33},
	}

	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			signed, err := s.Sign(tt.user, []byte("hello"))
			require.NoError(t, err)

			stored, err := table.GetPublicKey(tt.user)
			require.NoError(t, err)
			assert.Equal(t, hex.EncodeToString(stored), signed.PublicKey)

			pub, err := hex.DecodeString(signed.PublicKey)
			require.NoError(t, err)
			assert.Len(t, pub, tt.keyLength)

			ok, err := s.Verify(tt.user, []byte("hello"), signed.Signature)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestSign_Deterministic(t *testing.T) {
	s, _ := newTestSigner(t)

	// nonces are derived per RFC 6979
	a, err := s.Sign("bob", []byte("same message"))
	require.NoError(t, err)
	b, err := s.Sign("bob", []byte("same message"))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := s.Sign("bob", []byte("different message"))
	require.NoError(t, err)
	assert.NotEqual(t, a.Signature, c.Signature)
	assert.Equal(t, a.PublicKey, c.PublicKey)
}

func TestSign_EmptyMessage(t *testing.T) {
	s, _ := newTestSigner(t)

	signed, err := s.Sign("charlie", nil)
	require.NoError(t, err)

	ok, err := s.Verify("charlie", []byte{}, signed.Signature)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSign_UserErrors(t *testing.T) {
	s, _ := newTestSigner(t)

	_, err := s.Sign("", []byte("hello"))
	assert.True(t, errors.Is(err, accounts.ErrEmptyUser))

	_, err = s.Sign("mallory", []byte("hello"))
	assert.True(t, errors.Is(err, accounts.ErrUnknownUser))

	_, err = s.Verify("mallory", []byte("hello"), "00")
	assert.True(t, errors.Is(err, accounts.ErrUnknownUser))
}

func TestSign_InvalidPrivateKeyInTable(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	accts := memory.DefaultDemoAccounts()[:1]
	accts[0].PrivateKey = "00"
	table, err := accounts.NewTable(accts)
	require.NoError(t, err)

	s, err := NewInMemorySigner(table, testLogger)
	require.NoError(t, err)

	_, err = s.Sign("alice", []byte("hello"))
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	s, _ := newTestSigner(t)
	message := []byte("transfer 10")

	signed, err := s.Sign("alice", message)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		ok, err := s.Verify("alice", message, signed.Signature)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("0x prefix accepted", func(t *testing.T) {
		ok, err := s.Verify("alice", message, "0x"+signed.Signature)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("other user", func(t *testing.T) {
		ok, err := s.Verify("bob", message, signed.Signature)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other message", func(t *testing.T) {
		ok, err := s.Verify("alice", []byte("transfer 1000"), signed.Signature)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("not hex", func(t *testing.T) {
		_, err := s.Verify("alice", message, "xyz")
		assert.Error(t, err)
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := s.Verify("alice", message, signed.Signature[:128])
		assert.Error(t, err)
	})
}

func TestSign_Concurrent(t *testing.T) {
	s, table := newTestSigner(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := table.Users()[i%table.Len()]
			msg := []byte{byte(i)}
			signed, err := s.Sign(user, msg)
			if !assert.NoError(t, err) {
				return
			}
			ok, err := s.Verify(user, msg, signed.Signature)
			assert.NoError(t, err)
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()
}
