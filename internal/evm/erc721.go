package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"chainscope/internal/model"
)

var one = big.NewInt(1)

// applyERC721 matches the call against the ERC721 catalogue. Every
// delta is per token id with amount 1.
func (r *Resolver) applyERC721(ctx context.Context, tx Transaction, sender common.Address, changes model.BalancesChanges) {
	catalogue, err := ERC721ABI()
	if err != nil {
		r.logger.Error("erc721 abi unavailable", zap.Error(err))
		return
	}
	method, args, ok := methodBySelector(catalogue, tx.Data)
	if !ok {
		return
	}
	nft := model.NftFlag(true)

	switch method.RawName {
	case "transferFrom", "safeTransferFrom":
		// Both the 3-arg and 4-arg-with-bytes forms share a RawName;
		// the trailing bytes argument is irrelevant here.
		from, okFrom := asAddress(args[0])
		to, okTo := asAddress(args[1])
		tokenID, okID := asBigInt(args[2])
		if !okFrom || !okTo || !okID {
			return
		}
		slug := model.TokenSlug(tx.To.Hex(), tokenID)
		applyTransfer(changes, slug, nft, from, to, sender, one)
	case "mint", "safeMint":
		to, okTo := asAddress(args[0])
		if !okTo || to != sender {
			return
		}
		tokenID, ok := r.simulateMintedID(ctx, tx, sender, method.RawName, args)
		if !ok {
			// Without the id there is no honest slug to report under;
			// emit nothing rather than guess.
			return
		}
		changes.Add(model.TokenSlug(tx.To.Hex(), tokenID), one, nft)
	case "burn":
		tokenID, okID := asBigInt(args[0])
		if !okID {
			return
		}
		changes.Add(model.TokenSlug(tx.To.Hex(), tokenID), new(big.Int).Neg(one), nft)
	}
}

// simulateMintedID discovers the token id a mint would assign by
// simulating the call.
func (r *Resolver) simulateMintedID(ctx context.Context, tx Transaction, sender common.Address, method string, args []interface{}) (*big.Int, bool) {
	if r.reader == nil {
		return nil, false
	}
	catalogue, err := ERC721ABI()
	if err != nil {
		return nil, false
	}
	results, err := r.reader.SimulateContract(ctx, sender, *tx.To, catalogue, method, tx.Value, args...)
	if err != nil {
		r.logger.Debug("mint simulation failed",
			zap.String("token", tx.To.Hex()),
			zap.Error(err),
		)
		return nil, false
	}
	if len(results) == 0 {
		return nil, false
	}
	tokenID, ok := asBigInt(results[0])
	return tokenID, ok
}
