// Package access implements method-level access rules for components.
// Rules are evaluated by the host before a method runs; a method whose
// rule fails never executes.
package access

import (
	"fmt"

	"github.com/LeJamon/goOracle/internal/core/resource"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/pkg/errors"
)

// ErrUnauthorized is returned when the presented proofs do not satisfy
// the rule of the called method.
var ErrUnauthorized = errors.New("unauthorized")

// Kind identifies a rule.
type Kind uint8

const (
	KindAllowAll Kind = iota
	KindDenyAll
	KindRequire
)

// Rule gates a single method.
type Rule struct {
	Kind     Kind                  `codec:"kind" json:"kind"`
	Resource types.ResourceAddress `codec:"resource" json:"resource,omitempty"`
}

// AllowAll lets anyone call the method.
func AllowAll() Rule { return Rule{Kind: KindAllowAll} }

// DenyAll lets nobody call the method.
func DenyAll() Rule { return Rule{Kind: KindDenyAll} }

// Require demands a proof of a non-zero amount of res.
func Require(res types.ResourceAddress) Rule {
	return Rule{Kind: KindRequire, Resource: res}
}

// Allows evaluates the rule against proofs.
func (r Rule) Allows(proofs []resource.Proof) bool {
	switch r.Kind {
	case KindAllowAll:
		return true
	case KindRequire:
		for _, p := range proofs {
			if p.Covers(r.Resource) {
				return true
			}
		}
	}
	return false
}

func (r Rule) String() string {
	switch r.Kind {
	case KindAllowAll:
		return "allow_all"
	case KindDenyAll:
		return "deny_all"
	case KindRequire:
		return fmt.Sprintf("require(%s)", r.Resource)
	default:
		return fmt.Sprintf("Kind(%d)", r.Kind)
	}
}

// Policy decides whether a method may run.
type Policy interface {
	// RequiredCredential returns the resource a caller must prove to call
	// method, or false if the method needs no credential.
	RequiredCredential(method string) (types.ResourceAddress, bool)

	// Check returns ErrUnauthorized if proofs do not satisfy the rule of method.
	Check(method string, proofs []resource.Proof) error
}

// Rules maps method names to rules, falling back to a default rule for
// methods without their own. The zero default is allow_all.
type Rules struct {
	Methods     map[string]Rule `codec:"methods" json:"methods"`
	DefaultRule Rule            `codec:"default" json:"default"`
}

// NewRules returns an empty rule set whose default is allow_all.
func NewRules() *Rules {
	return &Rules{
		Methods:     make(map[string]Rule),
		DefaultRule: AllowAll(),
	}
}

// Method sets the rule of method.
func (r *Rules) Method(method string, rule Rule) *Rules {
	if r.Methods == nil {
		r.Methods = make(map[string]Rule)
	}
	r.Methods[method] = rule
	return r
}

// Default sets the rule applied to methods without their own.
func (r *Rules) Default(rule Rule) *Rules {
	r.DefaultRule = rule
	return r
}

// RuleFor returns the rule governing method.
func (r *Rules) RuleFor(method string) Rule {
	if rule, ok := r.Methods[method]; ok {
		return rule
	}
	return r.DefaultRule
}

func (r *Rules) RequiredCredential(method string) (types.ResourceAddress, bool) {
	rule := r.RuleFor(method)
	if rule.Kind != KindRequire {
		return types.ResourceAddress{}, false
	}
	return rule.Resource, true
}

func (r *Rules) Check(method string, proofs []resource.Proof) error {
	rule := r.RuleFor(method)
	if !rule.Allows(proofs) {
		return errors.Wrapf(ErrUnauthorized, "method %s requires %s", method, rule)
	}
	return nil
}
