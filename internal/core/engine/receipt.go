package engine

import (
	"github.com/LeJamon/goOracle/internal/core/state"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/google/uuid"
)

// Receipt is the outcome of a committed invocation.
type Receipt struct {
	ID            uuid.UUID                `json:"id"`
	Result        Result                   `json:"result"`
	Outputs       []any                    `json:"outputs,omitempty"`
	NewAccounts   []types.AccountAddress   `json:"new_accounts,omitempty"`
	NewComponents []types.ComponentAddress `json:"new_components,omitempty"`
	NewResources  []types.ResourceAddress  `json:"new_resources,omitempty"`
	Metadata      *state.Metadata          `json:"meta,omitempty"`
}
