package ranking

import (
	"github.com/hupe1980/recallmesh/core"
)

// Dedupe collapses candidates that represent the same logical fact surfaced
// from more than one store. It walks the merged list in order keeping a
// seen-set of primary ids; every SecondaryID encountered is added to a second
// seen-set checked against later candidates' primary ids, so the earlier,
// richer record wins and its mirror is dropped. Neither store needs to know
// about the other. Dedupe is idempotent and preserves input order.
func Dedupe(candidates []core.Candidate) []core.Candidate {
	if len(candidates) < 2 {
		return candidates
	}
	seen := make(map[string]struct{}, len(candidates))
	mirrored := make(map[string]struct{})
	out := make([]core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		if _, dup := mirrored[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		if c.SecondaryID != "" {
			mirrored[c.SecondaryID] = struct{}{}
		}
		out = append(out, c)
	}
	return out
}
