package testing

import (
	"github.com/LeJamon/goOracle/internal/core/engine"
)

// TxResult represents the result of an engine invocation.
type TxResult struct {
	// Code is the engine result code (e.g., "tesSUCCESS").
	Code string

	// Success indicates whether the invocation was committed.
	Success bool

	// Message provides additional details about the result.
	Message string

	// Receipt is set when the invocation was committed.
	Receipt *engine.Receipt
}

// Common result codes.
const (
	TesSUCCESS            = "tesSUCCESS"
	TecNO_TARGET          = "tecNO_TARGET"
	TecNO_PERMISSION      = "tecNO_PERMISSION"
	TecINSUFFICIENT_FUNDS = "tecINSUFFICIENT_FUNDS"
	TefINTERNAL           = "tefINTERNAL"
	TefPAST_SEQ           = "tefPAST_SEQ"
	TemMALFORMED          = "temMALFORMED"
	TemBAD_SIGNATURE      = "temBAD_SIGNATURE"
	TerNO_ACCOUNT         = "terNO_ACCOUNT"
	TerPRE_SEQ            = "terPRE_SEQ"
)

func newTxResult(r *engine.Receipt, err error) TxResult {
	if err != nil {
		code := engine.ResultFor(err)
		return TxResult{
			Code:    code.String(),
			Success: false,
			Message: err.Error(),
		}
	}
	return TxResult{
		Code:    r.Result.String(),
		Success: r.Result.IsSuccess(),
		Message: r.Result.Message(),
		Receipt: r,
	}
}

// IsClaimed returns true for tec codes: the invocation was rejected by the
// component or its access rules.
func (r TxResult) IsClaimed() bool {
	return len(r.Code) >= 3 && r.Code[:3] == "tec"
}

// IsMalformed returns true for tem codes.
func (r TxResult) IsMalformed() bool {
	return len(r.Code) >= 3 && r.Code[:3] == "tem"
}
