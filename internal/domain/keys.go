package domain

import "fmt"

// DefaultNamespace is the key prefix used when none is configured.
const DefaultNamespace = "webrag:"

// Namespace is the key prefix isolating one deployment's data inside a shared store.
//
// Key layout:
//
//	{ns}collection:{name}   collection metadata hash
//	{ns}{name}:idx          FT index
//	{ns}{name}:{id}         chunk hash
//	{ns}emb_cache:{sha256}  cached embedding
type Namespace string

// MetaKey returns the metadata hash key of a collection.
func (ns Namespace) MetaKey(collection string) string {
	return fmt.Sprintf("%scollection:%s", ns, collection)
}

// IndexName returns the FT index name of a collection.
func (ns Namespace) IndexName(collection string) string {
	return fmt.Sprintf("%s%s:idx", ns, collection)
}

// ChunkPrefix returns the key prefix covered by a collection's index.
func (ns Namespace) ChunkPrefix(collection string) string {
	return fmt.Sprintf("%s%s:", ns, collection)
}

// ChunkKey returns the hash key of a single chunk.
func (ns Namespace) ChunkKey(collection, id string) string {
	return ns.ChunkPrefix(collection) + id
}

// CacheKey returns the key of a cached embedding.
func (ns Namespace) CacheKey(digest string) string {
	return fmt.Sprintf("%semb_cache:%s", ns, digest)
}
