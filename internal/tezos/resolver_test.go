package tezos

import (
	"encoding/json"
	"math/big"
	"testing"

	"chainscope/internal/micheline"
	"chainscope/internal/model"
)

const (
	aliceAddr = "tz1VSUr8wwNhLAzempoch5d6hLRiTh8Cjcjb"
	bobAddr   = "tz1Ke2h7sDdakHJQh8WX4Z372du1KChsksyU"
	carolAddr = "tz1gjaF81ZRRvdzjobyfVNsAeSC6PScjfQwN"
	fa2Token  = "KT1RJ6PbjHpwc3M5rw5s2Nbmefwbuwbdxton"
	fa12Token = "KT1TjnZYs5CGLbmV6yuW169P8Pnr9BiVwwjz"
)

type fa2Leg struct {
	to      string
	tokenID int64
	amount  int64
}

func fa2Batch(from string, legs ...fa2Leg) micheline.Node {
	nodes := make([]micheline.Node, 0, len(legs))
	for _, leg := range legs {
		nodes = append(nodes, micheline.Pair(
			micheline.Str(leg.to),
			micheline.Pair(
				micheline.Num(big.NewInt(leg.tokenID)),
				micheline.Num(big.NewInt(leg.amount)),
			),
		))
	}
	return micheline.Seq(micheline.Pair(micheline.Str(from), micheline.Seq(nodes...)))
}

func transferEntry(source, destination, entrypoint string, value micheline.Node) OperationEntry {
	return OperationEntry{
		Kind:        "transaction",
		Source:      source,
		Destination: destination,
		Parameters:  &Parameters{Entrypoint: entrypoint, Value: value},
	}
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

func TestFA2BatchTransfer(t *testing.T) {
	entry := transferEntry(aliceAddr, fa2Token, "transfer",
		fa2Batch(aliceAddr, fa2Leg{to: bobAddr, tokenID: 0, amount: 5}, fa2Leg{to: carolAddr, tokenID: 0, amount: 3}))

	changes := ResolveOperation(entry, aliceAddr)
	if len(changes) != 1 {
		t.Fatalf("expected one change, got %+v", changes)
	}
	slug := model.TokenSlug(fa2Token, big.NewInt(0))
	mustAmount(t, changes, slug, -8)
	if changes[slug].IsNft != nil {
		t.Fatalf("isNft should be undetermined for tezos transfers")
	}
}

func TestFA2TransferConservation(t *testing.T) {
	entry := transferEntry(aliceAddr, fa2Token, "transfer",
		fa2Batch(aliceAddr, fa2Leg{to: bobAddr, tokenID: 7, amount: 5}, fa2Leg{to: carolAddr, tokenID: 7, amount: 3}))

	slug := model.TokenSlug(fa2Token, big.NewInt(7))
	total := big.NewInt(0)
	for _, subject := range []string{aliceAddr, bobAddr, carolAddr} {
		changes := ResolveOperation(entry, subject)
		if change, ok := changes[slug]; ok {
			total.Add(total, change.AtomicAmount)
		}
	}
	if total.Sign() != 0 {
		t.Fatalf("deltas do not conserve: %s", total)
	}
}

func TestFA2SelfTransferNoOp(t *testing.T) {
	entry := transferEntry(aliceAddr, fa2Token, "transfer",
		fa2Batch(aliceAddr, fa2Leg{to: aliceAddr, tokenID: 0, amount: 5}))

	changes := ResolveOperation(entry, aliceAddr)
	if len(changes) != 0 {
		t.Fatalf("self transfer should produce no changes, got %+v", changes)
	}
}

func TestFA12Transfer(t *testing.T) {
	value := micheline.Pair(
		micheline.Str(aliceAddr),
		micheline.Pair(micheline.Str(bobAddr), micheline.Num(big.NewInt(42))),
	)
	entry := transferEntry(aliceAddr, fa12Token, "transfer", value)

	mustAmount(t, ResolveOperation(entry, aliceAddr), fa12Token, -42)
	mustAmount(t, ResolveOperation(entry, bobAddr), fa12Token, 42)
}

func TestUnknownEntrypointIsConservative(t *testing.T) {
	entry := transferEntry(aliceAddr, fa2Token, "update_operators", micheline.Seq())
	changes := ResolveOperation(entry, aliceAddr)
	if len(changes) != 0 {
		t.Fatalf("unknown entrypoint should record nothing, got %+v", changes)
	}
}

func TestSchemaMismatchFallsThrough(t *testing.T) {
	// FA1.2-shaped payload on the transfer entrypoint: the FA2 candidate
	// must mismatch silently and the FA1.2 candidate must win.
	value := micheline.Pair(
		micheline.Str(aliceAddr),
		micheline.Pair(micheline.Str(bobAddr), micheline.Num(big.NewInt(9))),
	)
	entry := transferEntry(aliceAddr, fa12Token, "transfer", value)
	mustAmount(t, ResolveOperation(entry, bobAddr), fa12Token, 9)
}

func TestNativeTransfer(t *testing.T) {
	entry := OperationEntry{
		Kind:        "transaction",
		Source:      aliceAddr,
		Destination: bobAddr,
		Amount:      "1000000",
	}
	mustAmount(t, ResolveOperation(entry, aliceAddr), model.NativeSlug, -1000000)
	mustAmount(t, ResolveOperation(entry, bobAddr), model.NativeSlug, 1000000)
	if changes := ResolveOperation(entry, carolAddr); len(changes) != 0 {
		t.Fatalf("third party should see no changes, got %+v", changes)
	}
}

func TestNativeSelfTransferNoOp(t *testing.T) {
	entry := OperationEntry{
		Kind:        "transaction",
		Source:      aliceAddr,
		Destination: aliceAddr,
		Amount:      "5000",
	}
	if changes := ResolveOperation(entry, aliceAddr); len(changes) != 0 {
		t.Fatalf("native self transfer should be a no-op, got %+v", changes)
	}
}

func TestStakeDebitsDespiteSelfDestination(t *testing.T) {
	entry := OperationEntry{
		Kind:        "transaction",
		Source:      aliceAddr,
		Destination: aliceAddr,
		Amount:      "7000",
		Parameters:  &Parameters{Entrypoint: "stake", Value: micheline.Seq()},
	}
	mustAmount(t, ResolveOperation(entry, aliceAddr), model.NativeSlug, -7000)
}

func TestNonTransactionAmountIsOutbound(t *testing.T) {
	entry := OperationEntry{
		Kind:   "delegation",
		Source: aliceAddr,
		Amount: "300",
	}
	mustAmount(t, ResolveOperation(entry, aliceAddr), model.NativeSlug, -300)
	if changes := ResolveOperation(entry, bobAddr); len(changes) != 0 {
		t.Fatalf("non-sender should see no delegation changes, got %+v", changes)
	}
}

func TestInternalOperationsMerge(t *testing.T) {
	// A router contract forwards an FA1.2 transfer debiting alice.
	internalValue := micheline.Pair(
		micheline.Str(aliceAddr),
		micheline.Pair(micheline.Str(bobAddr), micheline.Num(big.NewInt(11))),
	)
	entry := OperationEntry{
		Kind:        "transaction",
		Source:      aliceAddr,
		Destination: "KT1RouterRouterRouterRouterRouterRou",
		Amount:      "500",
		Metadata: &OperationMetadata{
			InternalOperationResults: []InternalOperation{
				{
					Kind:        "transaction",
					Source:      "KT1RouterRouterRouterRouterRouterRou",
					Destination: fa12Token,
					Parameters:  &Parameters{Entrypoint: "transfer", Value: internalValue},
				},
			},
		},
	}

	changes := ResolveOperation(entry, aliceAddr)
	mustAmount(t, changes, fa12Token, -11)
	mustAmount(t, changes, model.NativeSlug, -500)
}

func TestMintOrBurn(t *testing.T) {
	value := micheline.Pair(micheline.Num(big.NewInt(-250)), micheline.Str(aliceAddr))
	entry := transferEntry(aliceAddr, fa12Token, "mintOrBurn", value)
	mustAmount(t, ResolveOperation(entry, aliceAddr), fa12Token, -250)
}

func TestGatedMintRequiresKnownDestination(t *testing.T) {
	// The wrapped-mint shape against an unknown contract must not match
	// the gated schema; the generic Pair(to, amount) schema mismatches
	// the three-field payload, so nothing is recorded.
	value := micheline.Pair(
		micheline.Str(aliceAddr),
		micheline.Pair(micheline.Num(big.NewInt(3)), micheline.Num(big.NewInt(100))),
	)
	entry := transferEntry(bobAddr, fa2Token, "mint", value)
	if changes := ResolveOperation(entry, aliceAddr); len(changes) != 0 {
		t.Fatalf("ungated mint should not match, got %+v", changes)
	}

	gated := transferEntry(bobAddr, wrapMinterContract, "mint", value)
	slug := model.TokenSlug(wrapMinterContract, big.NewInt(3))
	mustAmount(t, ResolveOperation(gated, aliceAddr), slug, 100)
}

func TestBatchAccumulation(t *testing.T) {
	first := OperationEntry{Kind: "transaction", Source: aliceAddr, Destination: bobAddr, Amount: "100"}
	second := OperationEntry{Kind: "transaction", Source: aliceAddr, Destination: carolAddr, Amount: "150"}
	changes := ResolveBalanceChanges([]OperationEntry{first, second}, aliceAddr)
	mustAmount(t, changes, model.NativeSlug, -250)
}

func TestOperationEntryJSONRoundTrip(t *testing.T) {
	raw := `{
		"kind": "transaction",
		"source": "` + aliceAddr + `",
		"destination": "` + fa12Token + `",
		"amount": "0",
		"parameters": {
			"entrypoint": "transfer",
			"value": {"prim":"Pair","args":[{"string":"` + aliceAddr + `"},{"prim":"Pair","args":[{"string":"` + bobAddr + `"},{"int":"12"}]}]}
		}
	}`
	var entry OperationEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		t.Fatalf("unmarshal entry: %v", err)
	}
	mustAmount(t, ResolveOperation(entry, bobAddr), fa12Token, 12)
}
