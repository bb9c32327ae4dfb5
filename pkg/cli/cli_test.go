package cli

import (
	"bytes"
	"encoding/hex"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/sutils/pkg/config"
	"github.com/code-payments/sutils/pkg/ledger"
	"github.com/code-payments/sutils/pkg/program"
	"github.com/code-payments/sutils/pkg/solana"
	"github.com/code-payments/sutils/pkg/solana/binary"
	"github.com/code-payments/sutils/pkg/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	return runWithConfig(t, configPath, args...)
}

func runWithConfig(t *testing.T, configPath string, args ...string) (string, error) {
	var out bytes.Buffer

	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitShow(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	_, err := runWithConfig(t, configPath, "config-show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read configuration file")

	out, err := runWithConfig(t, configPath, "config-init")
	require.NoError(t, err)
	assert.Contains(t, out, configPath)

	loaded, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), loaded)

	out, err = runWithConfig(t, configPath, "config-show")
	require.NoError(t, err)
	assert.Contains(t, out, "rpc_url: "+config.DefaultRpcURL)
	assert.Contains(t, out, "program_id: "+config.DefaultProgramID)
}

func TestDerive(t *testing.T) {
	state := testutil.GenerateSolanaKey(t)
	owner := testutil.GenerateSolanaKey(t)

	out, err := run(t, "derive", "--seed", "ledger_balance", "--seed", "key:"+base58.Encode(state), "--seed", "key:"+base58.Encode(owner))
	require.NoError(t, err)

	address, bump, err := ledger.GetBalanceAddress(&ledger.GetBalanceAddressArgs{State: state, Owner: owner})
	require.NoError(t, err)
	assert.Contains(t, out, "address: "+base58.Encode(address))
	assert.Contains(t, out, "bump: ")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "bump: "+strconv.Itoa(int(bump))))

	programID := testutil.GenerateSolanaKey(t)
	out, err = run(t, "derive", "--program", base58.Encode(programID), "--seed", "hex:0102ff")
	require.NoError(t, err)

	expected, _, err := solana.FindProgramAddressAndBump(programID, []byte{1, 2, 0xff})
	require.NoError(t, err)
	assert.Contains(t, out, "address: "+base58.Encode(expected))

	_, err = run(t, "derive", "--seed", "hex:zz")
	assert.Error(t, err)

	_, err = run(t, "derive", "--program", "abc")
	assert.True(t, errors.Is(err, binary.ErrInvalidLength))

	_, err = run(t, "derive", "--seed", "key:abc")
	assert.True(t, errors.Is(err, binary.ErrInvalidLength))
}

func TestPack(t *testing.T) {
	for _, tc := range []struct {
		args     []string
		expected []byte
	}{
		{[]string{"hello", "hi"}, []byte{0, 'h', 'i'}},
		{[]string{"init"}, []byte{1, 0}},
		{[]string{"init", "--force"}, []byte{1, 1}},
		{[]string{"open"}, []byte{2}},
		{[]string{"deposit", "258"}, []byte{3, 2, 1, 0, 0, 0, 0, 0, 0}},
		{[]string{"withdraw", "1"}, []byte{4, 1, 0, 0, 0, 0, 0, 0, 0}},
	} {
		out, err := run(t, append([]string{"pack"}, tc.args...)...)
		require.NoError(t, err)
		assert.Equal(t, hex.EncodeToString(tc.expected), strings.TrimSpace(out), "args %v", tc.args)
	}

	_, err := run(t, "pack", "deposit", "-1")
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	owner := testutil.GenerateSolanaKey(t)
	balance := &ledger.BalanceAccount{State: testutil.GenerateSolanaKey(t), Owner: owner, Amount: 420691337}

	out, err := run(t, "decode", hex.EncodeToString(program.ToBytes(balance)))
	require.NoError(t, err)
	assert.Equal(t, balance.String(), strings.TrimSpace(out))

	state := &ledger.StateAccount{Authority: owner, TotalDeposits: 5, Bump: 253}
	out, err = run(t, "decode", "0x"+hex.EncodeToString(program.ToBytes(state)))
	require.NoError(t, err)
	assert.Equal(t, state.String(), strings.TrimSpace(out))

	_, err = run(t, "decode", "2a00")
	assert.True(t, errors.Is(err, program.ErrDiscriminatorMismatch))

	_, err = run(t, "decode", "4501")
	assert.True(t, errors.Is(err, program.ErrAccountDataTooShort))

	_, err = run(t, "decode", "")
	assert.True(t, errors.Is(err, program.ErrAccountDataTooShort))
}

func TestDecodeInstruction(t *testing.T) {
	out, err := run(t, "decode-ix", hex.EncodeToString((&ledger.Deposit{Amount: 7}).Pack()))
	require.NoError(t, err)
	assert.Equal(t, "Deposit{amount=7}", strings.TrimSpace(out))

	out, err = run(t, "decode-ix", "02")
	require.NoError(t, err)
	assert.Equal(t, "OpenBalance{}", strings.TrimSpace(out))

	_, err = run(t, "decode-ix", "ff")
	assert.True(t, errors.Is(err, program.ErrUnknownDiscriminator))
}

func TestSimulate(t *testing.T) {
	out, err := run(t, "simulate", "--deposit", "100", "--withdraw", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "total_deposits=60")
	assert.Contains(t, out, "amount=60}")

	out, err = run(t, "simulate", "--deposit", "10", "--withdraw", "40")
	assert.True(t, errors.Is(err, program.ErrInsufficientFunds))
	assert.Contains(t, out, "amount=10}")
}
