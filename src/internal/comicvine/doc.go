// Package comicvine looks up comic issues on the Comic Vine REST API and
// normalizes them into schema.Metadata records.
//
// The package is layered: Client.Query performs a single GET and flattens the
// service's results envelope; FindByTitle, FindByID and ResolveIssue chain
// queries to resolve issue → volume references; BuildMeta maps a resolved
// issue into the fixed record; CoverURLs yields cover image URLs best first.
package comicvine
