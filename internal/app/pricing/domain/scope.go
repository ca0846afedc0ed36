package domain

import (
	"sort"
	"strings"
)

// ScopeType selects how a policy scope picks items.
type ScopeType string

const (
	ScopeAll      ScopeType = "all"
	ScopeCategory ScopeType = "category"
	ScopeProduct  ScopeType = "product"
	ScopeSku      ScopeType = "sku"
)

// SellableItem is the catalog view of a SKU the engine needs.
type SellableItem struct {
	ID          string
	ProductName string
	Category    string
	Active      bool
}

// PolicyScope selects the items a policy prices. Market and Channel are
// optional filters forwarded to strategies that read market data.
type PolicyScope struct {
	Type      ScopeType
	Reference string
	Market    string
	Channel   string
}

// Validate checks that the scope type is known and has a reference when needed.
func (s PolicyScope) Validate() error {
	switch s.Type {
	case ScopeAll:
		return nil
	case ScopeCategory, ScopeProduct:
		if strings.TrimSpace(s.Reference) == "" {
			return ErrInvalidPolicyScope
		}
		return nil
	case ScopeSku:
		if len(s.SkuIDs()) == 0 {
			return ErrInvalidPolicyScope
		}
		return nil
	default:
		return ErrInvalidPolicyScope
	}
}

// SkuIDs parses the comma-separated reference of a sku scope.
func (s PolicyScope) SkuIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, part := range strings.Split(s.Reference, ",") {
		id := strings.TrimSpace(part)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Resolve filters items down to the scope, ordered by item ID.
//
// all: every active item. category and product: active items whose product
// name contains the reference, case-insensitively. sku: the listed items.
func (s PolicyScope) Resolve(items []SellableItem) []SellableItem {
	var out []SellableItem
	switch s.Type {
	case ScopeAll:
		for _, it := range items {
			if it.Active {
				out = append(out, it)
			}
		}
	case ScopeCategory, ScopeProduct:
		ref := strings.ToLower(strings.TrimSpace(s.Reference))
		for _, it := range items {
			if it.Active && strings.Contains(strings.ToLower(it.ProductName), ref) {
				out = append(out, it)
			}
		}
	case ScopeSku:
		wanted := make(map[string]bool)
		for _, id := range s.SkuIDs() {
			wanted[id] = true
		}
		for _, it := range items {
			if wanted[it.ID] {
				out = append(out, it)
				delete(wanted, it.ID)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Unresolved returns the listed SKU IDs that resolved lists no item for, in
// ascending order. Only sku scopes name items explicitly, so every other
// scope type returns nil.
func (s PolicyScope) Unresolved(resolved []SellableItem) []string {
	if s.Type != ScopeSku {
		return nil
	}
	found := make(map[string]bool, len(resolved))
	for _, it := range resolved {
		found[it.ID] = true
	}
	var missing []string
	for _, id := range s.SkuIDs() {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}
