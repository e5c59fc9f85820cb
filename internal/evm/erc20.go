package evm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"chainscope/internal/model"
)

// applyERC20 matches the call against the ERC20 catalogue and applies
// the sender's deltas. Allowance methods (approve, increaseAllowance)
// are matched so they do not look like unknown calls, but an allowance
// change is not a balance change and records nothing here.
func (r *Resolver) applyERC20(tx Transaction, sender common.Address, changes model.BalancesChanges) {
	catalogue, err := ERC20ABI()
	if err != nil {
		r.logger.Error("erc20 abi unavailable", zap.Error(err))
		return
	}
	method, args, ok := methodBySelector(catalogue, tx.Data)
	if !ok {
		return
	}
	slug := tx.To.Hex()
	fungible := model.NftFlag(false)

	switch method.RawName {
	case "transfer":
		to, okTo := asAddress(args[0])
		amount, okAmount := asBigInt(args[1])
		if !okTo || !okAmount {
			return
		}
		applyTransfer(changes, slug, fungible, sender, to, sender, amount)
	case "transferFrom":
		from, okFrom := asAddress(args[0])
		to, okTo := asAddress(args[1])
		amount, okAmount := asBigInt(args[2])
		if !okFrom || !okTo || !okAmount {
			return
		}
		applyTransfer(changes, slug, fungible, from, to, sender, amount)
	case "mint":
		to, okTo := asAddress(args[0])
		amount, okAmount := asBigInt(args[1])
		if !okTo || !okAmount {
			return
		}
		if to == sender {
			changes.Add(slug, amount, fungible)
		}
	case "burn":
		amount, okAmount := asBigInt(args[0])
		if !okAmount {
			return
		}
		changes.Add(slug, new(big.Int).Neg(amount), fungible)
	case "burnFrom":
		account, okAccount := asAddress(args[0])
		amount, okAmount := asBigInt(args[1])
		if !okAccount || !okAmount {
			return
		}
		if account == sender {
			changes.Add(slug, new(big.Int).Neg(amount), fungible)
		}
	case "approve", "increaseAllowance":
		// Not a balance change.
	}
}

// applyTransfer attributes one transfer leg against the subject.
// Self-transfers record nothing.
func applyTransfer(changes model.BalancesChanges, slug string, isNft *bool, from, to, subject common.Address, amount *big.Int) {
	if from == to {
		return
	}
	if from == subject {
		changes.Add(slug, new(big.Int).Neg(amount), isNft)
	}
	if to == subject {
		changes.Add(slug, amount, isNft)
	}
}
