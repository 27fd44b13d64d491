// Package archive manages the on-disk backup archive: pruning freshly
// written backup trees down to the files worth keeping ([Clean]), and
// reading, listing, and removing the version-labeled subtrees under the
// archive base ([List], [Prune], [Remove]).
//
// Each archived version optionally carries a manifest.yaml describing
// when and from where it was created. The manifest is informational:
// restores never depend on it, and a version directory without one is
// still a valid archive.
package archive
