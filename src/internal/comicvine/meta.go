package comicvine

import (
	"context"
	"fmt"

	"comicmeta/src/internal/dates"
	"comicmeta/src/internal/schema"
	"comicmeta/src/internal/stringsx"
)

// BuildMeta maps a volume-resolved issue into a Metadata record.
//
// The issue id and the volume's name and id are mandatory. The publication
// date prefers store_date over cover_date and must be YYYY-MM-DD; anything
// else fails the record with ErrDateParse.
func BuildMeta(ctx context.Context, issue Record, obs Observer) (schema.Metadata, error) {
	if obs == nil {
		obs = NopObserver{}
	}
	id := issue.String("id")
	if id == "" {
		return schema.Metadata{}, wrapError("build_meta", "", fmt.Errorf("%w: issue without id", ErrMalformedRecord))
	}
	vol, ok := issue.Record("volume")
	if !ok || !vol.Has("name") {
		return schema.Metadata{}, wrapError("build_meta", id, fmt.Errorf("%w: volume not resolved", ErrMalformedRecord))
	}
	volID := vol.String("id")
	if volID == "" {
		return schema.Metadata{}, wrapError("build_meta", id, fmt.Errorf("%w: volume without id", ErrMalformedRecord))
	}

	series := vol.String("name")
	number := issue.String("issue_number")
	title := fmt.Sprintf("%s #%s", series, number)
	if name := issue.String("name"); name != "" {
		title += ": " + name
	}

	m := schema.Metadata{
		Title:       title,
		Authors:     creditNames(issue.List("person_credits")),
		Series:      series,
		SeriesIndex: number,
		Identifiers: map[string]string{
			schema.IDComicvine:       id,
			schema.IDComicvineVolume: volID,
		},
		Tags:     []string{schema.TagComics},
		HasCover: present(issue["image"]),
	}
	if v := issue["description"]; v != nil {
		desc := stringify(v)
		m.Comments = &desc
	}
	if pub, ok := vol.Record("publisher"); ok && len(pub) > 0 {
		m.Publisher = pub.String("name")
	}

	if raw := stringsx.Coalesce(issue.String("store_date"), issue.String("cover_date")); raw != "" {
		obs.Observe(ctx, Event{Kind: EventPubdate, IssueID: id, Value: raw})
		t, err := dates.ParseISO(raw)
		if err != nil {
			return schema.Metadata{}, wrapError("build_meta", id, fmt.Errorf("%w: %w", ErrDateParse, err))
		}
		m.Pubdate = &t
	}
	return m, nil
}

func creditNames(credits []any) []string {
	names := make([]string, 0, len(credits))
	for _, c := range credits {
		if r, ok := asRecord(c); ok {
			names = append(names, r.String("name"))
		}
	}
	return names
}
