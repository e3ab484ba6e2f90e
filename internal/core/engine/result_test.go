package engine

import (
	"testing"

	"github.com/LeJamon/goOracle/internal/core/access"
	"github.com/LeJamon/goOracle/internal/core/resource"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/crypto/secp256k1"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestResultFor(t *testing.T) {
	tests := []struct {
		err  error
		want Result
	}{
		{nil, TesSUCCESS},
		{errors.Wrap(access.ErrUnauthorized, "update_price"), TecNO_PERMISSION},
		{errors.Wrap(ErrNoComponent, "x"), TecNO_TARGET},
		{ErrNoMethod, TecNO_TARGET},
		{resource.ErrInsufficientBalance, TecINSUFFICIENT_FUNDS},
		{resource.ErrInvalidAmount, TemMALFORMED},
		{types.ErrInvalidAddress, TemMALFORMED},
		{ErrNoAccount, TerNO_ACCOUNT},
		{errors.Wrap(ErrBadSignature, "transfer"), TemBAD_SIGNATURE},
		{secp256k1.ErrInvalidPublicKey, TemMALFORMED},
		{ErrPastSequence, TefPAST_SEQ},
		{ErrFutureSequence, TerPRE_SEQ},
		{errors.New("disk on fire"), TefINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ResultFor(tt.err))
		})
	}
}

func TestResultCategories(t *testing.T) {
	assert.True(t, TesSUCCESS.IsSuccess())
	assert.True(t, TecNO_PERMISSION.IsTec())
	assert.True(t, TefINTERNAL.IsTef())
	assert.True(t, TemMALFORMED.IsTem())
	assert.True(t, TerNO_ACCOUNT.IsTer())
	assert.True(t, TerPRE_SEQ.IsTer())
	assert.True(t, TefPAST_SEQ.IsTef())
	assert.True(t, TemBAD_SIGNATURE.IsTem())
	assert.False(t, TecNO_TARGET.IsSuccess())

	text, err := TecNO_PERMISSION.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "tecNO_PERMISSION", string(text))
	assert.Equal(t, "Result(7)", Result(7).String())
}
