// Package opf renders metadata records as OPF 2.0 package documents, the
// format e-book managers import alongside a file.
package opf

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"

	"comicmeta/src/internal/dates"
	"comicmeta/src/internal/schema"
)

const (
	nsOPF = "http://www.idpf.org/2007/opf"
	nsDC  = "http://purl.org/dc/elements/1.1/"
)

type pkg struct {
	XMLName  xml.Name `xml:"package"`
	XMLNS    string   `xml:"xmlns,attr"`
	UniqueID string   `xml:"unique-identifier,attr"`
	Version  string   `xml:"version,attr"`
	Metadata metadata `xml:"metadata"`
}

type metadata struct {
	XMLNSDC     string       `xml:"xmlns:dc,attr"`
	XMLNSOPF    string       `xml:"xmlns:opf,attr"`
	Title       string       `xml:"dc:title"`
	Creators    []creator    `xml:"dc:creator"`
	Date        string       `xml:"dc:date,omitempty"`
	Description string       `xml:"dc:description,omitempty"`
	Publisher   string       `xml:"dc:publisher,omitempty"`
	Identifiers []identifier `xml:"dc:identifier"`
	Language    string       `xml:"dc:language"`
	Subjects    []string     `xml:"dc:subject"`
	Meta        []meta       `xml:"meta"`
}

type creator struct {
	Role string `xml:"opf:role,attr"`
	Name string `xml:",chardata"`
}

type identifier struct {
	ID     string `xml:"id,attr,omitempty"`
	Scheme string `xml:"opf:scheme,attr"`
	Value  string `xml:",chardata"`
}

type meta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

// Write renders m to w as an OPF 2.0 document. The comicvine identifier is
// the package's unique identifier.
func Write(w io.Writer, m schema.Metadata) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("opf: %w", err)
	}
	doc := pkg{
		XMLNS:    nsOPF,
		UniqueID: schema.IDComicvine,
		Version:  "2.0",
		Metadata: metadata{
			XMLNSDC:   nsDC,
			XMLNSOPF:  nsOPF,
			Title:     m.Title,
			Publisher: m.Publisher,
			Language:  "und",
			Subjects:  m.Tags,
		},
	}
	md := &doc.Metadata
	for _, a := range m.Authors {
		md.Creators = append(md.Creators, creator{Role: "aut", Name: a})
	}
	if m.Pubdate != nil {
		md.Date = dates.FormatISO(m.Pubdate, "")
	}
	if m.Comments != nil {
		md.Description = *m.Comments
	}

	// unique identifier first, remaining schemes in stable order
	md.Identifiers = append(md.Identifiers, identifier{ID: schema.IDComicvine, Scheme: schema.IDComicvine, Value: m.ID()})
	schemes := make([]string, 0, len(m.Identifiers))
	for k := range m.Identifiers {
		if k != schema.IDComicvine {
			schemes = append(schemes, k)
		}
	}
	sort.Strings(schemes)
	for _, k := range schemes {
		md.Identifiers = append(md.Identifiers, identifier{Scheme: k, Value: m.Identifiers[k]})
	}

	if m.Series != "" {
		md.Meta = append(md.Meta,
			meta{Name: "calibre:series", Content: m.Series},
			meta{Name: "calibre:series_index", Content: m.SeriesIndex},
		)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("opf: encode: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
