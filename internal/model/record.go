package model

// BalanceChangeRecord is the flattened, storable form of one resolved
// asset delta. Amounts are kept as decimal strings so JSON consumers
// never lose precision.
type BalanceChangeRecord struct {
	Chain        string `json:"chain"`
	Subject      string `json:"subject"`
	AssetSlug    string `json:"asset_slug"`
	AtomicAmount string `json:"atomic_amount"`
	IsNft        *bool  `json:"is_nft,omitempty"`
	TxRef        string `json:"tx_ref,omitempty"`
	ResolvedAt   string `json:"resolved_at"`
}

// TradeRecord is the storable form of a quoted trade.
type TradeRecord struct {
	InputSlug    string   `json:"input_slug"`
	InputAmount  string   `json:"input_amount"`
	OutputSlug   string   `json:"output_slug"`
	OutputAmount string   `json:"output_amount"`
	RouteDexes   []string `json:"route_dexes"`
	RouteHops    int      `json:"route_hops"`
	QuotedAt     string   `json:"quoted_at"`
}

// RecordsFromChanges flattens a resolved change map into storable rows.
func RecordsFromChanges(chain, subject, txRef, resolvedAt string, changes BalancesChanges) []BalanceChangeRecord {
	records := make([]BalanceChangeRecord, 0, len(changes))
	for slug, change := range changes {
		records = append(records, BalanceChangeRecord{
			Chain:        chain,
			Subject:      subject,
			AssetSlug:    slug,
			AtomicAmount: change.AtomicAmount.String(),
			IsNft:        change.IsNft,
			TxRef:        txRef,
			ResolvedAt:   resolvedAt,
		})
	}
	return records
}

// RecordFromTrade flattens a trade into a storable row.
func RecordFromTrade(trade Trade, quotedAt string) TradeRecord {
	dexes := make([]string, 0, len(trade.Route))
	for _, pair := range trade.Route {
		dexes = append(dexes, string(pair.DexType))
	}
	return TradeRecord{
		InputSlug:    trade.InputToken.Slug(),
		InputAmount:  trade.InputAmount.String(),
		OutputSlug:   trade.OutputToken.Slug(),
		OutputAmount: trade.OutputAmount.String(),
		RouteDexes:   dexes,
		RouteHops:    len(trade.Route),
		QuotedAt:     quotedAt,
	}
}
