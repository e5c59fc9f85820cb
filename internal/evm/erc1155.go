package evm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"chainscope/internal/model"
)

// applyERC1155 matches the call against the ERC1155 catalogue. Batch
// forms zip id/amount arrays positionally; mismatched lengths are
// truncated to the shorter side instead of crashing, since the arrays
// come straight from adversarial call data.
func (r *Resolver) applyERC1155(tx Transaction, sender common.Address, changes model.BalancesChanges) {
	catalogue, err := ERC1155ABI()
	if err != nil {
		r.logger.Error("erc1155 abi unavailable", zap.Error(err))
		return
	}
	method, args, ok := methodBySelector(catalogue, tx.Data)
	if !ok {
		return
	}
	nft := model.NftFlag(true)
	token := tx.To.Hex()

	switch method.RawName {
	case "safeTransferFrom":
		from, okFrom := asAddress(args[0])
		to, okTo := asAddress(args[1])
		id, okID := asBigInt(args[2])
		amount, okAmount := asBigInt(args[3])
		if !okFrom || !okTo || !okID || !okAmount {
			return
		}
		applyTransfer(changes, model.TokenSlug(token, id), nft, from, to, sender, amount)
	case "safeBatchTransferFrom":
		from, okFrom := asAddress(args[0])
		to, okTo := asAddress(args[1])
		ids, okIDs := asBigInts(args[2])
		amounts, okAmounts := asBigInts(args[3])
		if !okFrom || !okTo || !okIDs || !okAmounts {
			return
		}
		for i := 0; i < len(ids) && i < len(amounts); i++ {
			applyTransfer(changes, model.TokenSlug(token, ids[i]), nft, from, to, sender, amounts[i])
		}
	case "mint":
		to, okTo := asAddress(args[0])
		id, okID := asBigInt(args[1])
		amount, okAmount := asBigInt(args[2])
		if !okTo || !okID || !okAmount {
			return
		}
		if to == sender {
			changes.Add(model.TokenSlug(token, id), amount, nft)
		}
	case "mintBatch":
		to, okTo := asAddress(args[0])
		ids, okIDs := asBigInts(args[1])
		amounts, okAmounts := asBigInts(args[2])
		if !okTo || !okIDs || !okAmounts || to != sender {
			return
		}
		for i := 0; i < len(ids) && i < len(amounts); i++ {
			changes.Add(model.TokenSlug(token, ids[i]), amounts[i], nft)
		}
	case "burn":
		from, okFrom := asAddress(args[0])
		id, okID := asBigInt(args[1])
		amount, okAmount := asBigInt(args[2])
		if !okFrom || !okID || !okAmount {
			return
		}
		if from == sender {
			changes.Add(model.TokenSlug(token, id), new(big.Int).Neg(amount), nft)
		}
	case "burnBatch":
		from, okFrom := asAddress(args[0])
		ids, okIDs := asBigInts(args[1])
		amounts, okAmounts := asBigInts(args[2])
		if !okFrom || !okIDs || !okAmounts || from != sender {
			return
		}
		for i := 0; i < len(ids) && i < len(amounts); i++ {
			changes.Add(model.TokenSlug(token, ids[i]), new(big.Int).Neg(amounts[i]), nft)
		}
	}
}
