package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"comicmeta/src/internal/dates"
	"comicmeta/src/internal/schema"
)

// issueTable renders records as a rounded table: id, series, number,
// title, publication date and publisher.
func issueTable(list []schema.Metadata) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Series", "#", "Title", "Published", "Publisher"})
	for _, m := range list {
		tw.AppendRow(table.Row{m.ID(), m.Series, m.SeriesIndex, m.Title, dates.FormatISO(m.Pubdate, "Unknown"), m.Publisher})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
