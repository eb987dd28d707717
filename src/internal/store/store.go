package store

import (
    "encoding/json"
    "errors"
    "fmt"
    "io/fs"
    "os"
    "path/filepath"
    "sort"
    "strings"

    "github.com/gofrs/flock"
    "gopkg.in/yaml.v3"

    "comicmeta/src/internal/schema"
)

const (
    ComicsDir   = "data/comics"
    MetadataDir = "data/metadata"
    SeriesJSON  = "data/metadata/series.json"
    AuthorsJSON = "data/metadata/authors.json"

    // LockFile serializes writers across processes.
    LockFile = "data/.store.lock"
)

// ensureMetaDir creates the metadata directory if missing.
func ensureMetaDir() error { return os.MkdirAll(MetadataDir, 0o755) }

// writeJSON writes the given value to the target JSON file with indentation.
func writeJSON(target string, v any) (string, error) {
    b, err := json.MarshalIndent(v, "", "  ")
    if err != nil { return "", err }
    if err := os.WriteFile(target, b, 0o644); err != nil { return "", err }
    return target, nil
}

// seriesDir picks the directory segment for a record: the slugged series
// name, or the volume id when the name slugs to nothing.
func seriesDir(m schema.Metadata) string {
    if s := schema.Slugify(m.Series); s != "" {
        return s
    }
    return "volume-" + m.VolumeID()
}

// PathFor returns the repo-relative YAML path a record is stored at.
func PathFor(m schema.Metadata) string {
    return filepath.ToSlash(filepath.Join(ComicsDir, seriesDir(m), m.ID()+".yaml"))
}

// WriteMetadata validates and writes the record to
// data/comics/<series>/<comicvine id>.yaml, replacing any earlier copy.
func WriteMetadata(m schema.Metadata) (string, error) {
    if err := m.Validate(); err != nil {
        return "", err
    }
    path := PathFor(m)
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return "", err
    }
    lock := flock.New(LockFile)
    if err := lock.Lock(); err != nil {
        return "", fmt.Errorf("acquire store lock: %w", err)
    }
    defer func() { _ = lock.Unlock() }()
    buf, err := yaml.Marshal(m)
    if err != nil {
        return "", err
    }
    if err := os.WriteFile(path, buf, 0o644); err != nil {
        return "", err
    }
    return path, nil
}

// ReadAll loads, validates, and returns all records under data/comics in
// path order.
func ReadAll() ([]schema.Metadata, error) {
    var out []schema.Metadata
    if _, err := os.Stat(ComicsDir); errors.Is(err, fs.ErrNotExist) {
        return out, nil
    }
    err := filepath.WalkDir(ComicsDir, func(path string, d fs.DirEntry, err error) error {
        if err != nil {
            return err
        }
        if d.IsDir() || !strings.HasSuffix(path, ".yaml") {
            return nil
        }
        data, err := os.ReadFile(path)
        if err != nil {
            return err
        }
        var m schema.Metadata
        if err := yaml.Unmarshal(data, &m); err != nil {
            return fmt.Errorf("invalid YAML in %s: %w", path, err)
        }
        if err := m.Validate(); err != nil {
            return fmt.Errorf("invalid record in %s: %w", path, err)
        }
        out = append(out, m)
        return nil
    })
    return out, err
}

// FilterBySeries keeps records whose series matches name, ignoring case and
// surrounding space. An empty name keeps everything.
func FilterBySeries(list []schema.Metadata, name string) []schema.Metadata {
    name = strings.TrimSpace(name)
    if name == "" {
        return list
    }
    var out []schema.Metadata
    for _, m := range list {
        if strings.EqualFold(strings.TrimSpace(m.Series), name) {
            out = append(out, m)
        }
    }
    return out
}

// BuildSeriesIndex writes data/metadata/series.json mapping series name -> record YAML paths.
func BuildSeriesIndex(list []schema.Metadata) (string, error) {
    if err := ensureMetaDir(); err != nil {
        return "", err
    }
    index := map[string][]string{}
    for _, m := range list {
        s := strings.TrimSpace(m.Series)
        if s == "" {
            continue
        }
        index[s] = append(index[s], PathFor(m))
    }
    for k := range index {
        sort.Strings(index[k])
    }
    return writeJSON(SeriesJSON, index)
}

// BuildAuthorIndex writes data/metadata/authors.json mapping credited name -> record YAML paths.
func BuildAuthorIndex(list []schema.Metadata) (string, error) {
    if err := ensureMetaDir(); err != nil {
        return "", err
    }
    index := map[string][]string{}
    for _, m := range list {
        path := PathFor(m)
        // one path per name per record; credits repeat across roles
        seen := map[string]bool{}
        for _, a := range m.Authors {
            a = strings.TrimSpace(a)
            if a == "" || seen[a] {
                continue
            }
            seen[a] = true
            index[a] = append(index[a], path)
        }
    }
    for k := range index {
        sort.Strings(index[k])
    }
    return writeJSON(AuthorsJSON, index)
}
