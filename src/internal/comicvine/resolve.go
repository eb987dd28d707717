package comicvine

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// FindByTitle searches issues matching title and returns each hit with its
// volume reference replaced by the full volume record, in the order the
// service ranked them.
//
// A hit whose detail fetch does not yield exactly one record is dropped
// without error. Any other failure aborts the whole search.
func (c *Client) FindByTitle(ctx context.Context, title string) ([]Record, error) {
	hits, err := c.Query(ctx, "search/", url.Values{
		"resources":  {"issue"},
		"query":      {title},
		"field_list": {"api_detail_url"},
	})
	if err != nil {
		return nil, err
	}
	var issues []Record
	for _, hit := range hits {
		detail := hit.String("api_detail_url")
		if detail == "" {
			return nil, wrapError("find_by_title", "search/", fmt.Errorf("%w: search hit without api_detail_url", ErrMalformedRecord))
		}
		found, err := c.Query(ctx, detail, nil)
		if err != nil {
			return nil, err
		}
		if len(found) != 1 {
			c.observer.Observe(ctx, Event{Kind: EventSkipHit, Target: detail, Count: len(found)})
			continue
		}
		issue := found[0]
		if err := c.resolveVolume(ctx, issue); err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// FindByID fetches the issue with the given numeric identifier. The volume
// field is left as the service's reference.
func (c *Client) FindByID(ctx context.Context, id string) (Record, error) {
	id = strings.TrimSpace(id)
	if !isDigits(id) {
		return nil, wrapError("find_by_id", id, ErrInvalidID)
	}
	target := fmt.Sprintf("issue/%s-%s", issueTypePrefix, id)
	found, err := c.Query(ctx, target, nil)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, wrapError("find_by_id", target, ErrNotFound)
	}
	return found[0], nil
}

// ResolveIssue fetches an issue by identifier and resolves its volume, so
// the result can be passed to BuildMeta.
func (c *Client) ResolveIssue(ctx context.Context, id string) (Record, error) {
	issue, err := c.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.resolveVolume(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// resolveVolume replaces issue["volume"] with the record its detail URL
// points to.
func (c *Client) resolveVolume(ctx context.Context, issue Record) error {
	ref, ok := issue.Record("volume")
	if !ok {
		return wrapError("resolve_volume", issue.String("id"), fmt.Errorf("%w: issue without volume", ErrMalformedRecord))
	}
	detail := ref.String("api_detail_url")
	if detail == "" {
		return wrapError("resolve_volume", issue.String("id"), fmt.Errorf("%w: volume without api_detail_url", ErrMalformedRecord))
	}
	vols, err := c.Query(ctx, detail, nil)
	if err != nil {
		return err
	}
	if len(vols) == 0 {
		return wrapError("resolve_volume", detail, ErrNotFound)
	}
	issue["volume"] = vols[0]
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
