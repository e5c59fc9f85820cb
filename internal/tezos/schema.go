package tezos

import (
	"math/big"

	"chainscope/internal/micheline"
)

// assetEffect is one signed ledger movement decoded from parameters.
// Amount is positive for credits to Account, negative for debits.
type assetEffect struct {
	Account string
	TokenID *big.Int
	Amount  *big.Int
}

// paramSchema is one candidate decoding for an entrypoint's payload.
// Decode returns ok=false on shape mismatch so the next candidate in
// the group can be tried; it never fails the whole resolution.
// A non-empty destination allow-list gates the schema to known
// contracts, preventing false-positive structural matches.
type paramSchema struct {
	name                 string
	acceptedDestinations []string
	decode               func(op OperationEntry, value micheline.Node) ([]assetEffect, bool)
}

// tzBTC and the WRAP protocol minter carry mint/burn entrypoints whose
// shapes are close enough to unrelated contracts that matching is
// restricted to these exact addresses.
var (
	tzBTCContract      = "KT1PWx2mnDueood7fEmfbBDKx1D9BAnnXitn"
	wrapMinterContract = "KT1LRboPna9yQY9BrjtQYDS1DVxhKESK4VVd"
)

// paramSchemas is the ordered candidate table, grouped by entrypoint.
// Within a group the first schema that passes its destination gate and
// decodes successfully wins.
var paramSchemas = map[string][]paramSchema{
	"transfer": {
		{name: "fa2-transfer", decode: decodeFA2Transfer},
		{name: "fa12-transfer", decode: decodeFA12Transfer},
	},
	"mint": {
		{
			name:                 "wrapped-mint",
			acceptedDestinations: []string{wrapMinterContract},
			decode:               decodeWrappedMint,
		},
		{
			name:                 "tzbtc-mint",
			acceptedDestinations: []string{tzBTCContract},
			decode:               decodeSimpleMint,
		},
		{name: "fa-mint", decode: decodeSimpleMint},
	},
	"burn": {
		{
			name:                 "wrapped-burn",
			acceptedDestinations: []string{wrapMinterContract},
			decode:               decodeWrappedBurn,
		},
		{
			name:                 "tzbtc-burn",
			acceptedDestinations: []string{tzBTCContract},
			decode:               decodeSimpleBurn,
		},
		{name: "fa-burn", decode: decodeSimpleBurn},
	},
	"mintOrBurn": {
		{name: "mint-or-burn", decode: decodeMintOrBurn},
	},
}

// decodeFA2Transfer matches the FA2 batch shape:
// [ Pair from [ Pair to (Pair token_id amount) ... ] ... ].
func decodeFA2Transfer(_ OperationEntry, value micheline.Node) ([]assetEffect, bool) {
	batches, ok := value.Items()
	if !ok {
		return nil, false
	}
	var effects []assetEffect
	for _, batch := range batches {
		if !batch.IsPair() {
			return nil, false
		}
		from, ok := batch.Args[0].Address()
		if !ok {
			return nil, false
		}
		legs, ok := batch.Args[1].Items()
		if !ok {
			return nil, false
		}
		for _, leg := range legs {
			if !leg.IsPair() || !leg.Args[1].IsPair() {
				return nil, false
			}
			to, ok := leg.Args[0].Address()
			if !ok {
				return nil, false
			}
			tokenID, ok := leg.Args[1].Args[0].BigInt()
			if !ok {
				return nil, false
			}
			amount, ok := leg.Args[1].Args[1].BigInt()
			if !ok {
				return nil, false
			}
			effects = append(effects, transferEffects(from, to, tokenID, amount)...)
		}
	}
	return effects, true
}

// decodeFA12Transfer matches Pair from (Pair to amount).
func decodeFA12Transfer(_ OperationEntry, value micheline.Node) ([]assetEffect, bool) {
	if !value.IsPair() || !value.Args[1].IsPair() {
		return nil, false
	}
	from, ok := value.Args[0].Address()
	if !ok {
		return nil, false
	}
	to, ok := value.Args[1].Args[0].Address()
	if !ok {
		return nil, false
	}
	amount, ok := value.Args[1].Args[1].BigInt()
	if !ok {
		return nil, false
	}
	return transferEffects(from, to, nil, amount), true
}

// decodeWrappedMint matches Pair to (Pair token_id amount).
func decodeWrappedMint(_ OperationEntry, value micheline.Node) ([]assetEffect, bool) {
	if !value.IsPair() || !value.Args[1].IsPair() {
		return nil, false
	}
	to, ok := value.Args[0].Address()
	if !ok {
		return nil, false
	}
	tokenID, ok := value.Args[1].Args[0].BigInt()
	if !ok {
		return nil, false
	}
	amount, ok := value.Args[1].Args[1].BigInt()
	if !ok {
		return nil, false
	}
	return []assetEffect{{Account: to, TokenID: tokenID, Amount: amount}}, true
}

// decodeSimpleMint matches Pair to amount.
func decodeSimpleMint(_ OperationEntry, value micheline.Node) ([]assetEffect, bool) {
	if !value.IsPair() {
		return nil, false
	}
	to, ok := value.Args[0].Address()
	if !ok {
		return nil, false
	}
	amount, ok := value.Args[1].BigInt()
	if !ok {
		return nil, false
	}
	return []assetEffect{{Account: to, Amount: amount}}, true
}

// decodeWrappedBurn matches Pair token_id amount, debited from the
// operation source.
func decodeWrappedBurn(op OperationEntry, value micheline.Node) ([]assetEffect, bool) {
	if !value.IsPair() {
		return nil, false
	}
	tokenID, ok := value.Args[0].BigInt()
	if !ok {
		return nil, false
	}
	amount, ok := value.Args[1].BigInt()
	if !ok {
		return nil, false
	}
	return []assetEffect{{Account: op.Source, TokenID: tokenID, Amount: neg(amount)}}, true
}

// decodeSimpleBurn matches either Pair from amount or a bare amount
// debited from the operation source.
func decodeSimpleBurn(op OperationEntry, value micheline.Node) ([]assetEffect, bool) {
	if value.IsPair() {
		from, ok := value.Args[0].Address()
		if !ok {
			return nil, false
		}
		amount, ok := value.Args[1].BigInt()
		if !ok {
			return nil, false
		}
		return []assetEffect{{Account: from, Amount: neg(amount)}}, true
	}
	amount, ok := value.BigInt()
	if !ok {
		return nil, false
	}
	return []assetEffect{{Account: op.Source, Amount: neg(amount)}}, true
}

// decodeMintOrBurn matches Pair quantity target, where quantity is
// already signed by the contract convention.
func decodeMintOrBurn(_ OperationEntry, value micheline.Node) ([]assetEffect, bool) {
	if !value.IsPair() {
		return nil, false
	}
	quantity, ok := value.Args[0].BigInt()
	if !ok {
		return nil, false
	}
	target, ok := value.Args[1].Address()
	if !ok {
		return nil, false
	}
	return []assetEffect{{Account: target, Amount: quantity}}, true
}

// transferEffects expands one transfer leg into a debit and a credit.
// Self-transfers are a no-op.
func transferEffects(from, to string, tokenID, amount *big.Int) []assetEffect {
	if from == to {
		return nil
	}
	return []assetEffect{
		{Account: from, TokenID: tokenID, Amount: neg(amount)},
		{Account: to, TokenID: tokenID, Amount: amount},
	}
}

func neg(value *big.Int) *big.Int {
	return new(big.Int).Neg(value)
}
