package wallet_test

import (
	"testing"

	"github.com/iblisbuu/gracenode-wallet/internal/wallet"
	"github.com/iblisbuu/gracenode-wallet/internal/wallet/wallettest"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Configuration(t *testing.T) {
	eng := wallettest.NewEngine()

	tests := []struct {
		name   string
		engine wallet.Engine
		names  []string
	}{
		{"missing engine", nil, []string{"gems"}},
		{"no names", eng, nil},
		{"blank name", eng, []string{"gems", "  "}},
		{"duplicate name", eng, []string{"gems", "coins", "gems"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := wallet.NewRegistry(tt.engine, tt.names, quietLogger())
			assert.ErrorIs(t, err, wallet.ErrConfiguration)
			assert.Nil(t, reg)
		})
	}
}

func TestRegistry_Get(t *testing.T) {
	reg, err := wallet.NewRegistry(wallettest.NewEngine(), []string{" gems", "coins"}, quietLogger())
	require.NoError(t, err)

	w, ok := reg.Get("gems")
	require.True(t, ok)
	assert.Equal(t, "gems", w.Name())

	w, ok = reg.Get("tickets")
	assert.False(t, ok)
	assert.Nil(t, w)

	assert.Equal(t, []string{"gems", "coins"}, reg.Names())
}

func TestRegistry_GetUnknownLogsWarning(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	reg, err := wallet.NewRegistry(wallettest.NewEngine(), []string{"gems"}, log)
	require.NoError(t, err)
	hook.Reset()

	_, ok := reg.Get("tickets")
	assert.False(t, ok)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "tickets", hook.LastEntry().Data["wallet"])
}

func TestNewRegistry_NilLogger(t *testing.T) {
	reg, err := wallet.NewRegistry(wallettest.NewEngine(), []string{"gems"}, nil)
	require.NoError(t, err)
	_, ok := reg.Get("gems")
	assert.True(t, ok)
}
