package testing

import (
	"testing"

	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/stretchr/testify/require"
)

// RequireTxSuccess asserts that an invocation was committed.
func RequireTxSuccess(t *testing.T, result TxResult) {
	t.Helper()
	require.True(t, result.Success,
		"Expected success, got %s: %s", result.Code, result.Message)
	require.Equal(t, TesSUCCESS, result.Code,
		"Expected tesSUCCESS, got %s: %s", result.Code, result.Message)
}

// RequireTxFail asserts that an invocation failed with a specific code.
func RequireTxFail(t *testing.T, result TxResult, expectedCode string) {
	t.Helper()
	require.False(t, result.Success,
		"Expected failure with code %s, but the invocation succeeded", expectedCode)
	require.Equal(t, expectedCode, result.Code,
		"Expected failure code %s, got %s: %s", expectedCode, result.Code, result.Message)
}

// RequireTxError asserts that an invocation failed with a specific message.
func RequireTxError(t *testing.T, result TxResult, expectedCode, expectedMessage string) {
	t.Helper()
	RequireTxFail(t, result, expectedCode)
	require.Equal(t, expectedMessage, result.Message)
}

// RequireBalance asserts the amount of res held by acc.
func RequireBalance(t *testing.T, env *TestEnv, acc *Account, res types.ResourceAddress, expected string) {
	t.Helper()
	actual := env.Balance(acc, res)
	require.True(t, actual.Equal(Dec(expected)),
		"Account %s balance of %s mismatch: expected %s, got %s",
		acc.Name, res, expected, actual)
}

// RequirePrice asserts the price of base in quote.
func RequirePrice(t *testing.T, env *TestEnv, o *Oracle, base, quote types.ResourceAddress, expected string) {
	t.Helper()
	actual, ok := env.GetPrice(o, base, quote)
	require.True(t, ok, "Expected a price for %s/%s, found none", base, quote)
	require.True(t, actual.Equal(Dec(expected)),
		"Price of %s/%s mismatch: expected %s, got %s", base, quote, expected, actual)
}

// RequireNoPrice asserts that base/quote was never priced.
func RequireNoPrice(t *testing.T, env *TestEnv, o *Oracle, base, quote types.ResourceAddress) {
	t.Helper()
	actual, ok := env.GetPrice(o, base, quote)
	require.False(t, ok, "Expected no price for %s/%s, found %s", base, quote, actual)
}

// RequireReciprocal asserts that a/b and b/a are either both unset or
// reciprocal at ledger decimal precision.
func RequireReciprocal(t *testing.T, env *TestEnv, o *Oracle, a, b types.ResourceAddress) {
	t.Helper()
	forward, okForward := env.GetPrice(o, a, b)
	reverse, okReverse := env.GetPrice(o, b, a)
	require.Equal(t, okForward, okReverse,
		"Only one direction of %s/%s is priced", a, b)
	if !okForward {
		return
	}
	require.True(t, reverse.Equal(types.Reciprocal(forward)) || forward.Equal(types.Reciprocal(reverse)),
		"Prices %s and %s of %s/%s are not reciprocal", forward, reverse, a, b)
}
