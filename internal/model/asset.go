package model

import (
	"fmt"
	"math/big"
	"strings"
)

// NativeSlug is the canonical key for a chain's native asset.
const NativeSlug = "native"

// TokenSlug builds the canonical asset key for a contract token.
// Fungible tokens without an id map to the bare contract address;
// multi-token assets append the token id after an underscore.
func TokenSlug(address string, tokenID *big.Int) string {
	if tokenID == nil {
		return address
	}
	return fmt.Sprintf("%s_%s", address, tokenID.String())
}

// SplitSlug is the inverse of TokenSlug. The returned id is nil for
// the native sentinel and for fungible slugs without an id part.
func SplitSlug(slug string) (address string, tokenID *big.Int, err error) {
	if slug == "" {
		return "", nil, fmt.Errorf("empty asset slug")
	}
	if slug == NativeSlug {
		return "", nil, nil
	}
	parts := strings.SplitN(slug, "_", 2)
	address = parts[0]
	if len(parts) == 1 {
		return address, nil, nil
	}
	id, ok := new(big.Int).SetString(parts[1], 10)
	if !ok {
		return "", nil, fmt.Errorf("invalid token id in slug %q", slug)
	}
	return address, id, nil
}

// TokenRef identifies a token in a liquidity pair: either the native
// asset (IsNative) or a contract token with an optional id.
type TokenRef struct {
	IsNative bool     `json:"is_native,omitempty"`
	Address  string   `json:"address,omitempty"`
	ID       *big.Int `json:"id,omitempty"`
}

// NativeToken returns the native asset reference.
func NativeToken() TokenRef {
	return TokenRef{IsNative: true}
}

// ContractToken returns a token reference for a contract address and optional id.
func ContractToken(address string, id *big.Int) TokenRef {
	return TokenRef{Address: address, ID: id}
}

// Slug returns the canonical asset key for the reference.
func (t TokenRef) Slug() string {
	if t.IsNative {
		return NativeSlug
	}
	return TokenSlug(t.Address, t.ID)
}

// Equal reports structural equality of two token references.
func (t TokenRef) Equal(other TokenRef) bool {
	if t.IsNative != other.IsNative {
		return false
	}
	if t.IsNative {
		return true
	}
	if t.Address != other.Address {
		return false
	}
	if (t.ID == nil) != (other.ID == nil) {
		return false
	}
	if t.ID == nil {
		return true
	}
	return t.ID.Cmp(other.ID) == 0
}

func (t TokenRef) String() string {
	return t.Slug()
}
