package types

import "fmt"

// AssetPair is an ordered (base, quote) pair of resources. (A, B) and (B, A)
// are distinct pairs.
type AssetPair struct {
	Base  ResourceAddress `json:"base"`
	Quote ResourceAddress `json:"quote"`
}

// NewAssetPair returns the pair base/quote.
func NewAssetPair(base, quote ResourceAddress) AssetPair {
	return AssetPair{Base: base, Quote: quote}
}

// Inverse returns quote/base.
func (p AssetPair) Inverse() AssetPair {
	return AssetPair{Base: p.Quote, Quote: p.Base}
}

// IsDegenerate reports whether base and quote are the same resource.
func (p AssetPair) IsDegenerate() bool {
	return p.Base == p.Quote
}

func (p AssetPair) String() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}
