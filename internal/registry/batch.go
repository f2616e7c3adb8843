package registry

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// fetchBatchSize bounds concurrent outbound registry calls. Batches run
// sequentially; only the gets inside one batch overlap.
const fetchBatchSize = 10

// FetchByIDs fetches records individually with bounded fan-out: fixed-size
// batches of concurrent gets, joined before the next batch starts. Results
// are concatenated in input order and are not deduplicated here; callers
// already work from deduplicated id sets.
func FetchByIDs(ctx context.Context, c Client, kind Kind, ids []string) ([]Record, error) {
	out := make([]Record, len(ids))
	for start := 0; start < len(ids); start += fetchBatchSize {
		end := min(start+fetchBatchSize, len(ids))

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				rec, err := c.Get(gctx, kind, ids[i])
				if err != nil {
					return err
				}
				out[i] = rec
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FindByContactIDs fetches the businesses or properties linked to a contact
// set. It tries the registry's structured batch filter first; if the registry
// rejects it, ONE broad free-text query is issued (the representative
// contact's email or name) and results are filtered client-side to records
// whose contact_ids intersect the resolved set. The fallback costs an extra
// round trip but survives registries without batch-by-id filtering. No other
// retry is attempted.
func FindByContactIDs(ctx context.Context, c Client, kind Kind, contactIDs []string, broadQuery string) ([]Record, error) {
	recs, err := c.SearchByContactIDs(ctx, kind, contactIDs)
	if err == nil {
		return recs, nil
	}
	if !errors.Is(err, ErrBatchUnsupported) {
		return nil, err
	}

	broad, err := c.Search(ctx, kind, broadQuery)
	if err != nil {
		return nil, err
	}

	want := make(map[string]struct{}, len(contactIDs))
	for _, id := range contactIDs {
		want[id] = struct{}{}
	}

	filtered := make([]Record, 0, len(broad))
	for _, rec := range broad {
		for _, cid := range rec.StrList("contact_ids") {
			if _, ok := want[cid]; ok {
				filtered = append(filtered, rec)
				break
			}
		}
	}
	return filtered, nil
}
