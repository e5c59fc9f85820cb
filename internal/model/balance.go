package model

import "math/big"

// BalanceChange is a signed delta for one asset, in atomic units.
// Positive means inbound to the subject address, negative outbound.
// IsNft is nil when the token standard could not be determined.
type BalanceChange struct {
	AtomicAmount *big.Int `json:"atomic_amount"`
	IsNft        *bool    `json:"is_nft,omitempty"`
}

// BalancesChanges maps asset slugs to their signed deltas.
type BalancesChanges map[string]BalanceChange

// NftFlag returns a pointer suitable for BalanceChange.IsNft.
func NftFlag(isNft bool) *bool {
	return &isNft
}

// Add accumulates a delta for the given slug. Amounts for the same slug
// sum; an existing nil IsNft is upgraded once a standard becomes known.
func (bc BalancesChanges) Add(slug string, amount *big.Int, isNft *bool) {
	if amount == nil || amount.Sign() == 0 {
		return
	}
	existing, ok := bc[slug]
	if !ok {
		bc[slug] = BalanceChange{AtomicAmount: new(big.Int).Set(amount), IsNft: isNft}
		return
	}
	existing.AtomicAmount = new(big.Int).Add(existing.AtomicAmount, amount)
	if existing.IsNft == nil {
		existing.IsNft = isNft
	}
	bc[slug] = existing
}

// Merge folds other into bc, summing per-slug amounts.
func (bc BalancesChanges) Merge(other BalancesChanges) {
	for slug, change := range other {
		bc.Add(slug, change.AtomicAmount, change.IsNft)
	}
}

// StripZero removes entries whose accumulated amount is zero, so a
// wash (equal in and out) does not surface as a change.
func (bc BalancesChanges) StripZero() {
	for slug, change := range bc {
		if change.AtomicAmount == nil || change.AtomicAmount.Sign() == 0 {
			delete(bc, slug)
		}
	}
}
