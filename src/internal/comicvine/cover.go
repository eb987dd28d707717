package comicvine

import (
	"context"
	"iter"
)

// coverTiers lists image keys from best to worst quality.
var coverTiers = []string{"super_url", "medium_url", "small_url"}

// CoverURLs returns a lazy sequence of cover URLs for issue id, best
// quality first. With best set, the sequence stops after the first URL.
//
// Nothing is fetched until the sequence is ranged, and every range resolves
// the issue again. A resolution failure is yielded once as ("", err) and
// ends the sequence; retries belong around the call that ranges it.
func (c *Client) CoverURLs(ctx context.Context, id string, best bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		issue, err := c.FindByID(ctx, id)
		if err != nil {
			yield("", err)
			return
		}
		image, _ := issue.Record("image")
		for _, tier := range coverTiers {
			u := image.String(tier)
			if u == "" {
				continue
			}
			if !yield(u, nil) || best {
				return
			}
		}
	}
}
