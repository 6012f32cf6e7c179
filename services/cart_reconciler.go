package services

import (
	"oskar-api/entity"
)

// MergeStrategy selects how a conflicting article is resolved when a local
// (anonymous) cart is folded into the server cart at login.
type MergeStrategy string

const (
	StrategyKeepLocal   MergeStrategy = "keepLocal"
	StrategyKeepServer  MergeStrategy = "keepServer"
	StrategyMerge       MergeStrategy = "merge"
	StrategyMaxQuantity MergeStrategy = "maxQuantity"
)

// Valid reports whether s is a known strategy.
func (s MergeStrategy) Valid() bool {
	switch s {
	case StrategyKeepLocal, StrategyKeepServer, StrategyMerge, StrategyMaxQuantity:
		return true
	}
	return false
}

// ConflictRecord documents one resolved conflict, for audit and tests.
type ConflictRecord struct {
	Article    entity.ArticleRef `json:"article"`
	LocalQty   int               `json:"localQty"`
	ServerQty  int               `json:"serverQty"`
	Resolution MergeStrategy     `json:"resolution"`
	FinalQty   int               `json:"finalQty"`
}

// ReconciliationResult is the outcome of a reconcile pass. Merged is the full
// item set the caller should persist; Conflicts lists every article that
// appeared on both sides.
type ReconciliationResult struct {
	Merged    []entity.CartItem `json:"merged"`
	Conflicts []ConflictRecord  `json:"conflicts"`
}

// Reconcile folds localItems into serverItems, resolving per-article
// conflicts with the given strategy. Two items conflict iff their article
// reference (type + uuid) matches. Items present on only one side pass
// through unchanged.
//
// Pure: it never touches the gateway, and for fixed inputs and strategy the
// output is identical on every call. Merged holds server items in server
// order (resolved in place), then unmatched local items in local order.
func Reconcile(localItems, serverItems []entity.CartItem, strategy MergeStrategy) ReconciliationResult {
	if !strategy.Valid() {
		strategy = StrategyMerge
	}

	localByKey := make(map[string]*entity.CartItem, len(localItems))
	for i := range localItems {
		localByKey[localItems[i].Ref().Key()] = &localItems[i]
	}

	res := ReconciliationResult{
		Merged: make([]entity.CartItem, 0, len(serverItems)+len(localItems)),
	}
	matched := make(map[string]bool, len(serverItems))

	for i := range serverItems {
		srv := serverItems[i]
		key := srv.Ref().Key()
		local, ok := localByKey[key]
		if !ok {
			res.Merged = append(res.Merged, srv)
			continue
		}
		matched[key] = true

		out := resolve(*local, srv, strategy)
		res.Merged = append(res.Merged, out)
		res.Conflicts = append(res.Conflicts, ConflictRecord{
			Article:    srv.Ref(),
			LocalQty:   local.Quantity,
			ServerQty:  srv.Quantity,
			Resolution: strategy,
			FinalQty:   out.Quantity,
		})
	}

	for i := range localItems {
		if !matched[localItems[i].Ref().Key()] {
			res.Merged = append(res.Merged, localItems[i])
		}
	}
	return res
}

// resolve picks the surviving line for one conflicting article. For every
// strategy except keepLocal the server line is the pricing and stock source
// of truth; only the quantity differs.
func resolve(local, srv entity.CartItem, strategy MergeStrategy) entity.CartItem {
	switch strategy {
	case StrategyKeepLocal:
		return local
	case StrategyKeepServer:
		return srv
	case StrategyMaxQuantity:
		out := srv
		if local.Quantity > srv.Quantity {
			out.Quantity = local.Quantity
		}
		return out
	default: // StrategyMerge
		out := srv
		out.Quantity = local.Quantity + srv.Quantity
		if out.QtyMax > 0 && out.Quantity > out.QtyMax {
			out.Quantity = out.QtyMax
		}
		return out
	}
}
