package cleanup

import (
	"sort"

	"github.com/greglamb/gemini-pr-reviewer/internal/manifest"
	"github.com/greglamb/gemini-pr-reviewer/internal/store"
)

// InventoryItem is one remote asset annotated with local ownership data.
type InventoryItem struct {
	RemoteName  string
	DisplayName string
	State       string
	// SessionID is set only for owned items.
	SessionID string
}

// Inventory is the authoritative remote listing split by ownership.
// Owned assets appear both remotely and in the manifest; strays exist
// remotely but are untracked, e.g. created outside this tool or left behind
// by a crashed run before the tool could record them.
type Inventory struct {
	Owned  []InventoryItem
	Strays []InventoryItem
	// Missing lists manifest entries with no matching remote asset: the
	// asset was deleted outside this tool and the ledger has drifted.
	Missing []manifest.Entry
}

// Reconcile diffs the local manifest against a live remote snapshot. It is a
// pure function over the two slices; no I/O.
func Reconcile(entries []manifest.Entry, remote []*store.Asset) Inventory {
	tracked := make(map[string]manifest.Entry, len(entries))
	for _, e := range entries {
		tracked[e.RemoteName] = e
	}

	var inv Inventory
	seen := make(map[string]bool, len(remote))
	for _, a := range remote {
		seen[a.RemoteName] = true
		item := InventoryItem{
			RemoteName:  a.RemoteName,
			DisplayName: a.DisplayName,
			State:       a.State.String(),
		}
		if e, ok := tracked[a.RemoteName]; ok {
			item.SessionID = e.SessionID
			inv.Owned = append(inv.Owned, item)
		} else {
			inv.Strays = append(inv.Strays, item)
		}
	}

	for _, e := range entries {
		if !seen[e.RemoteName] {
			inv.Missing = append(inv.Missing, e)
		}
	}

	sort.Slice(inv.Owned, func(i, j int) bool { return inv.Owned[i].RemoteName < inv.Owned[j].RemoteName })
	sort.Slice(inv.Strays, func(i, j int) bool { return inv.Strays[i].RemoteName < inv.Strays[j].RemoteName })
	sort.Slice(inv.Missing, func(i, j int) bool { return inv.Missing[i].RemoteName < inv.Missing[j].RemoteName })
	return inv
}
