package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Identifier keys attached to every record.
const (
	IDComicvine       = "comicvine"
	IDComicvineVolume = "comicvine-volume"
)

// TagComics is the only tag a record carries.
const TagComics = "Comics"

// Metadata is a normalized bibliographic record for a single comic issue.
type Metadata struct {
	Title       string            `yaml:"title" json:"title"`
	Authors     []string          `yaml:"authors" json:"authors"`
	Series      string            `yaml:"series" json:"series"`
	SeriesIndex string            `yaml:"series_index" json:"series_index"`
	Identifiers map[string]string `yaml:"identifiers" json:"identifiers"`
	Tags        []string          `yaml:"tags" json:"tags"`
	// Comments is the issue description as returned by the service; it may
	// contain HTML. Nil when the service has no description.
	Comments  *string    `yaml:"comments,omitempty" json:"comments,omitempty"`
	HasCover  bool       `yaml:"has_cover" json:"has_cover"`
	Publisher string     `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	Pubdate   *time.Time `yaml:"pubdate,omitempty" json:"pubdate,omitempty"`
}

// ID returns the comicvine issue identifier.
func (m Metadata) ID() string { return m.Identifiers[IDComicvine] }

// VolumeID returns the comicvine volume identifier.
func (m Metadata) VolumeID() string { return m.Identifiers[IDComicvineVolume] }

// Validate checks the invariants every record must satisfy.
func (m *Metadata) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return errors.New("title is required")
	}
	for _, k := range []string{IDComicvine, IDComicvineVolume} {
		if strings.TrimSpace(m.Identifiers[k]) == "" {
			return fmt.Errorf("identifiers.%s is required", k)
		}
	}
	return nil
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
var dashCollapse = regexp.MustCompile(`-+`)

// Slugify generates a file-friendly slug from a series name. Accents are
// folded to their base letters.
func Slugify(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err == nil {
		title = folded
	}
	t := strings.ToLower(strings.TrimSpace(title))
	t = nonAlnum.ReplaceAllString(t, "-")
	t = dashCollapse.ReplaceAllString(t, "-")
	return strings.Trim(t, "-")
}
