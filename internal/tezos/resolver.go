package tezos

import (
	"chainscope/internal/model"
)

// ResolveBalanceChanges walks a batch of operation entries and
// accumulates signed per-asset deltas for the subject address.
// Entries merge commutatively, so batch order cannot change the result,
// but every entry is processed.
//
// Decoding limitations never fail the resolution: an operation the
// schema table cannot interpret simply contributes no parameter-derived
// deltas. The caller always gets a renderable (possibly empty) map.
func ResolveBalanceChanges(entries []OperationEntry, subject string) model.BalancesChanges {
	changes := model.BalancesChanges{}
	for _, entry := range entries {
		resolveEntry(entry, subject, changes)
	}
	changes.StripZero()
	return changes
}

// ResolveOperation resolves a single operation entry.
func ResolveOperation(entry OperationEntry, subject string) model.BalancesChanges {
	return ResolveBalanceChanges([]OperationEntry{entry}, subject)
}

// resolveEntry attributes one entry's effects against subject. The
// subject is threaded explicitly through the internal-operation
// recursion so forwarded calls still attribute to the original signer.
func resolveEntry(op OperationEntry, subject string, changes model.BalancesChanges) {
	if op.Kind != "transaction" {
		// Delegations, originations and stake-like contents move their
		// amount entirely out of the sender.
		if amount := op.amount(); amount != nil && amount.Sign() > 0 && op.Source == subject {
			changes.Add(model.NativeSlug, neg(amount), nil)
		}
		return
	}

	if op.Parameters != nil {
		applyParameters(op, subject, changes)
	}

	if op.Metadata != nil {
		for _, internal := range op.Metadata.InternalOperationResults {
			resolveEntry(internal.AsEntry(), subject, changes)
		}
	}

	applyNativeAmount(op, subject, changes)
}

// applyParameters tries the entrypoint's schema group in its fixed
// order; the first schema that passes its destination gate and decodes
// wins. No match records nothing.
func applyParameters(op OperationEntry, subject string, changes model.BalancesChanges) {
	group, ok := paramSchemas[op.Parameters.Entrypoint]
	if !ok {
		return
	}
	for _, schema := range group {
		if !destinationAccepted(schema, op.Destination) {
			continue
		}
		effects, ok := schema.decode(op, op.Parameters.Value)
		if !ok {
			continue
		}
		for _, effect := range effects {
			if effect.Account != subject {
				continue
			}
			slug := model.TokenSlug(op.Destination, effect.TokenID)
			changes.Add(slug, effect.Amount, nil)
		}
		return
	}
}

// applyNativeAmount handles the transaction's own tez amount. A
// self-transfer is a no-op except for the stake entrypoint, which moves
// liquid balance into a frozen bucket on the same address and is always
// debited.
func applyNativeAmount(op OperationEntry, subject string, changes model.BalancesChanges) {
	amount := op.amount()
	if amount == nil || amount.Sign() == 0 {
		return
	}
	selfTransfer := op.Source == op.Destination
	switch {
	case op.Source == subject && (!selfTransfer || op.entrypoint() == "stake"):
		changes.Add(model.NativeSlug, neg(amount), nil)
	case op.Destination == subject && !selfTransfer:
		changes.Add(model.NativeSlug, amount, nil)
	}
}

func destinationAccepted(schema paramSchema, destination string) bool {
	if len(schema.acceptedDestinations) == 0 {
		return true
	}
	for _, accepted := range schema.acceptedDestinations {
		if accepted == destination {
			return true
		}
	}
	return false
}
