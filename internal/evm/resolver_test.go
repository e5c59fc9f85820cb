package evm

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"chainscope/internal/model"
)

var (
	senderAddr = common.HexToAddress("0x1111111111111111111111111111111111111111")
	otherAddr  = common.HexToAddress("0x2222222222222222222222222222222222222222")
	tokenAddr  = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

type staticDetector struct {
	standard Standard
	err      error
}

func (d staticDetector) DetectStandard(context.Context, common.Address) (Standard, error) {
	return d.standard, d.err
}

type fakeReader struct {
	simulateResults []interface{}
	simulateErr     error
}

func (r fakeReader) ReadContract(context.Context, common.Address, abi.ABI, string, ...interface{}) ([]interface{}, error) {
	return nil, errors.New("not implemented")
}

func (r fakeReader) SimulateContract(context.Context, common.Address, common.Address, abi.ABI, string, *big.Int, ...interface{}) ([]interface{}, error) {
	return r.simulateResults, r.simulateErr
}

func pack(t *testing.T, catalogue abi.ABI, method string, args ...interface{}) []byte {
	t.Helper()
	data, err := catalogue.Pack(method, args...)
	if err != nil {
		t.Fatalf("pack %s: %v", method, err)
	}
	return data
}

func resolve(t *testing.T, standard Standard, reader ChainReader, tx Transaction) model.BalancesChanges {
	t.Helper()
	resolver := NewResolver(staticDetector{standard: standard}, reader, nil)
	changes, err := resolver.Resolve(context.Background(), tx, senderAddr)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return changes
}

func mustAmount(t *testing.T, changes model.BalancesChanges, slug string, want int64) {
	t.Helper()
	change, ok := changes[slug]
	if !ok {
		t.Fatalf("missing change for %s: %+v", slug, changes)
	}
	if change.AtomicAmount.Cmp(big.NewInt(want)) != 0 {
		t.Fatalf("%s amount = %s, want %d", slug, change.AtomicAmount, want)
	}
}

func TestNativeTransfer(t *testing.T) {
	tx := Transaction{To: &otherAddr, Value: big.NewInt(5000)}
	changes := resolve(t, StandardUnknown, nil, tx)
	mustAmount(t, changes, model.NativeSlug, -5000)
}

func TestNativeSelfTransferNoOp(t *testing.T) {
	tx := Transaction{To: &senderAddr, Value: big.NewInt(5000)}
	if changes := resolve(t, StandardUnknown, nil, tx); len(changes) != 0 {
		t.Fatalf("self transfer should be empty, got %+v", changes)
	}
}

func TestNativeZeroValue(t *testing.T) {
	tx := Transaction{To: &otherAddr, Value: big.NewInt(0)}
	if changes := resolve(t, StandardUnknown, nil, tx); len(changes) != 0 {
		t.Fatalf("zero value should be empty, got %+v", changes)
	}
}

func TestERC20Transfer(t *testing.T) {
	catalogue, _ := ERC20ABI()
	tx := Transaction{To: &tokenAddr, Data: pack(t, catalogue, "transfer", otherAddr, big.NewInt(250))}
	changes := resolve(t, StandardERC20, nil, tx)
	mustAmount(t, changes, tokenAddr.Hex(), -250)
	if change := changes[tokenAddr.Hex()]; change.IsNft == nil || *change.IsNft {
		t.Fatalf("erc20 should carry isNft=false")
	}
}

func TestERC20TransferFromInbound(t *testing.T) {
	catalogue, _ := ERC20ABI()
	tx := Transaction{To: &tokenAddr, Data: pack(t, catalogue, "transferFrom", otherAddr, senderAddr, big.NewInt(70))}
	mustAmount(t, resolve(t, StandardERC20, nil, tx), tokenAddr.Hex(), 70)
}

func TestERC20SelfTransferNoOp(t *testing.T) {
	catalogue, _ := ERC20ABI()
	tx := Transaction{To: &tokenAddr, Data: pack(t, catalogue, "transfer", senderAddr, big.NewInt(250))}
	if changes := resolve(t, StandardERC20, nil, tx); len(changes) != 0 {
		t.Fatalf("self transfer should be empty, got %+v", changes)
	}
}

func TestERC20ApproveExcluded(t *testing.T) {
	catalogue, _ := ERC20ABI()
	for _, method := range []string{"approve", "increaseAllowance"} {
		tx := Transaction{To: &tokenAddr, Data: pack(t, catalogue, method, otherAddr, big.NewInt(1000))}
		if changes := resolve(t, StandardERC20, nil, tx); len(changes) != 0 {
			t.Fatalf("%s is not a balance change, got %+v", method, changes)
		}
	}
}

func TestERC20BurnFrom(t *testing.T) {
	catalogue, _ := ERC20ABI()
	tx := Transaction{To: &tokenAddr, Data: pack(t, catalogue, "burnFrom", senderAddr, big.NewInt(33))}
	mustAmount(t, resolve(t, StandardERC20, nil, tx), tokenAddr.Hex(), -33)
}

func TestERC721SafeTransferFromWithBytes(t *testing.T) {
	catalogue, _ := ERC721ABI()
	// The 4-arg overload is keyed safeTransferFrom0 by the abi package.
	tx := Transaction{To: &tokenAddr, Data: pack(t, catalogue, "safeTransferFrom0", senderAddr, otherAddr, big.NewInt(9), []byte{0x01})}
	changes := resolve(t, StandardERC721, nil, tx)
	slug := model.TokenSlug(tokenAddr.Hex(), big.NewInt(9))
	mustAmount(t, changes, slug, -1)
	if change := changes[slug]; change.IsNft == nil || !*change.IsNft {
		t.Fatalf("erc721 transfer should carry isNft=true")
	}
}

func TestERC721MintDiscoversIDViaSimulation(t *testing.T) {
	catalogue, _ := ERC721ABI()
	reader := fakeReader{simulateResults: []interface{}{big.NewInt(77)}}
	tx := Transaction{To: &tokenAddr, Data: pack(t, catalogue, "mint", senderAddr)}
	changes := resolve(t, StandardERC721, reader, tx)
	mustAmount(t, changes, model.TokenSlug(tokenAddr.Hex(), big.NewInt(77)), 1)
}

func TestERC721MintSimulationFailureEmitsNothing(t *testing.T) {
	catalogue, _ := ERC721ABI()
	reader := fakeReader{simulateErr: errors.New("execution reverted")}
	tx := Transaction{To: &tokenAddr, Data: pack(t, catalogue, "safeMint", senderAddr)}
	if changes := resolve(t, StandardERC721, reader, tx); len(changes) != 0 {
		t.Fatalf("failed simulation should emit nothing, got %+v", changes)
	}
}

func TestERC1155BatchZip(t *testing.T) {
	catalogue, _ := ERC1155ABI()
	ids := []*big.Int{big.NewInt(0), big.NewInt(2)}
	amounts := []*big.Int{big.NewInt(1), big.NewInt(5)}
	tx := Transaction{To: &tokenAddr, Data: pack(t, catalogue, "safeBatchTransferFrom", senderAddr, otherAddr, ids, amounts, []byte{})}

	changes := resolve(t, StandardERC1155, nil, tx)
	if len(changes) != 2 {
		t.Fatalf("expected two entries, got %+v", changes)
	}
	mustAmount(t, changes, model.TokenSlug(tokenAddr.Hex(), big.NewInt(0)), -1)
	mustAmount(t, changes, model.TokenSlug(tokenAddr.Hex(), big.NewInt(2)), -5)
	for slug, change := range changes {
		if change.IsNft == nil || !*change.IsNft {
			t.Fatalf("%s should carry isNft=true", slug)
		}
	}
}

func TestERC1155BatchTruncatesMismatchedLengths(t *testing.T) {
	catalogue, _ := ERC1155ABI()
	ids := []*big.Int{big.NewInt(0), big.NewInt(2), big.NewInt(3)}
	amounts := []*big.Int{big.NewInt(4)}
	tx := Transaction{To: &tokenAddr, Data: pack(t, catalogue, "safeBatchTransferFrom", senderAddr, otherAddr, ids, amounts, []byte{})}

	changes := resolve(t, StandardERC1155, nil, tx)
	if len(changes) != 1 {
		t.Fatalf("expected truncation to one entry, got %+v", changes)
	}
	mustAmount(t, changes, model.TokenSlug(tokenAddr.Hex(), big.NewInt(0)), -4)
}

func TestERC1155MintToSender(t *testing.T) {
	catalogue, _ := ERC1155ABI()
	tx := Transaction{To: &tokenAddr, Data: pack(t, catalogue, "mint", senderAddr, big.NewInt(6), big.NewInt(20), []byte{})}
	mustAmount(t, resolve(t, StandardERC1155, nil, tx), model.TokenSlug(tokenAddr.Hex(), big.NewInt(6)), 20)
}

func TestUnknownSelectorResolvesEmpty(t *testing.T) {
	tx := Transaction{To: &tokenAddr, Data: []byte{0xde, 0xad, 0xbe, 0xef, 0x00}}
	if changes := resolve(t, StandardERC20, nil, tx); len(changes) != 0 {
		t.Fatalf("unknown selector should be empty, got %+v", changes)
	}
}

func TestUnknownStandardResolvesEmpty(t *testing.T) {
	catalogue, _ := ERC20ABI()
	tx := Transaction{To: &tokenAddr, Data: pack(t, catalogue, "transfer", otherAddr, big.NewInt(1))}
	if changes := resolve(t, StandardUnknown, nil, tx); len(changes) != 0 {
		t.Fatalf("unknown standard should be empty, got %+v", changes)
	}
}

func TestDetectionFailureResolvesEmpty(t *testing.T) {
	catalogue, _ := ERC20ABI()
	tx := Transaction{To: &tokenAddr, Data: pack(t, catalogue, "transfer", otherAddr, big.NewInt(1))}
	resolver := NewResolver(staticDetector{err: errors.New("node unavailable")}, nil, nil)
	changes, err := resolver.Resolve(context.Background(), tx, senderAddr)
	if err != nil {
		t.Fatalf("detection failure must not surface as an error: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("detection failure should resolve empty, got %+v", changes)
	}
}

func TestKnownStandardSkipsDetection(t *testing.T) {
	catalogue, _ := ERC20ABI()
	tx := Transaction{To: &tokenAddr, Data: pack(t, catalogue, "transfer", otherAddr, big.NewInt(15))}
	resolver := NewResolver(staticDetector{err: errors.New("node unavailable")}, nil, nil)
	resolver.KnowStandard(tokenAddr, StandardERC20)
	changes, err := resolver.Resolve(context.Background(), tx, senderAddr)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	mustAmount(t, changes, tokenAddr.Hex(), -15)
}
