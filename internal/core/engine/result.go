package engine

import (
	"fmt"

	"github.com/LeJamon/goOracle/internal/core/access"
	"github.com/LeJamon/goOracle/internal/core/oracle"
	"github.com/LeJamon/goOracle/internal/core/resource"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/crypto/secp256k1"
	"github.com/pkg/errors"
)

// Result represents an invocation result code
type Result int

// Result codes, organized by category: tes, tec, tef, tem, ter
const (
	// tesSUCCESS (0-99)
	TesSUCCESS Result = 0

	// tec codes (100-199): rejected by the component or its rules
	TecNO_TARGET          Result = 138
	TecNO_PERMISSION      Result = 139
	TecINSUFFICIENT_FUNDS Result = 159

	// tef codes (-199 to -100): the host failed
	TefINTERNAL Result = -192
	TefPAST_SEQ Result = -190

	// tem codes (-299 to -200): malformed arguments
	TemMALFORMED     Result = -299
	TemBAD_SIGNATURE Result = -282

	// ter codes (-99 to -1): retry once the missing state exists
	TerNO_ACCOUNT Result = -96
	TerPRE_SEQ    Result = -92
)

func (r Result) String() string {
	switch r {
	case TesSUCCESS:
		return "tesSUCCESS"
	case TecNO_TARGET:
		return "tecNO_TARGET"
	case TecNO_PERMISSION:
		return "tecNO_PERMISSION"
	case TecINSUFFICIENT_FUNDS:
		return "tecINSUFFICIENT_FUNDS"
	case TefINTERNAL:
		return "tefINTERNAL"
	case TefPAST_SEQ:
		return "tefPAST_SEQ"
	case TemMALFORMED:
		return "temMALFORMED"
	case TemBAD_SIGNATURE:
		return "temBAD_SIGNATURE"
	case TerNO_ACCOUNT:
		return "terNO_ACCOUNT"
	case TerPRE_SEQ:
		return "terPRE_SEQ"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// MarshalText encodes the result as its token.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// IsSuccess returns true if the invocation succeeded
func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if this is a tec code
func (r Result) IsTec() bool {
	return r >= 100 && r < 200
}

// IsTef returns true if this is a tef (failure) code
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// IsTem returns true if this is a tem (malformed) code
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// IsTer returns true if this is a ter (retry) code
func (r Result) IsTer() bool {
	return r >= -99 && r <= -1
}

// Message returns a human-readable message for the result
func (r Result) Message() string {
	switch r {
	case TesSUCCESS:
		return "The invocation was applied."
	case TecNO_TARGET:
		return "The target component, method or resource does not exist."
	case TecNO_PERMISSION:
		return "The caller does not satisfy the access rule of the method."
	case TecINSUFFICIENT_FUNDS:
		return "Insufficient balance to create the requested proof."
	case TefINTERNAL:
		return "Internal error."
	case TefPAST_SEQ:
		return "This sequence number has already passed."
	case TemMALFORMED:
		return "Malformed argument."
	case TemBAD_SIGNATURE:
		return "The signature does not match the account key."
	case TerNO_ACCOUNT:
		return "The source account does not exist."
	case TerPRE_SEQ:
		return "Missing/inapplicable prior invocation."
	default:
		return "Unknown result."
	}
}

// ResultFor maps an invocation error to its result code.
func ResultFor(err error) Result {
	switch {
	case err == nil:
		return TesSUCCESS
	case errors.Is(err, oracle.ErrInvalidArgument),
		errors.Is(err, resource.ErrInvalidAmount),
		errors.Is(err, resource.ErrInvalidDivisibility),
		errors.Is(err, resource.ErrMetadataKeyMalformed),
		errors.Is(err, types.ErrInvalidAddress),
		errors.Is(err, types.ErrInvalidDecimal),
		errors.Is(err, secp256k1.ErrInvalidPublicKey):
		return TemMALFORMED
	case errors.Is(err, ErrBadSignature):
		return TemBAD_SIGNATURE
	case errors.Is(err, ErrPastSequence):
		return TefPAST_SEQ
	case errors.Is(err, ErrFutureSequence):
		return TerPRE_SEQ
	case errors.Is(err, access.ErrUnauthorized):
		return TecNO_PERMISSION
	case errors.Is(err, ErrNoComponent),
		errors.Is(err, ErrNoMethod),
		errors.Is(err, resource.ErrResourceNotFound):
		return TecNO_TARGET
	case errors.Is(err, resource.ErrInsufficientBalance):
		return TecINSUFFICIENT_FUNDS
	case errors.Is(err, ErrNoAccount):
		return TerNO_ACCOUNT
	default:
		return TefINTERNAL
	}
}
