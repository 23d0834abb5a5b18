// Package image lists and stores images in the object store and serves the
// gallery HTTP endpoints.
package image

// ObjectEntry is a single stored image.
type ObjectEntry struct {
	Key       string `json:"key"`
	PublicURL string `json:"publicUrl"`
}

// Listing is one snapshot of the store's contents, in the order the store reported them.
type Listing []ObjectEntry

// URLs returns the public URL of every entry. The result is never nil so it
// encodes as a JSON array even for an empty store.
func (l Listing) URLs() []string {
	urls := make([]string, 0, len(l))
	for _, e := range l {
		urls = append(urls, e.PublicURL)
	}
	return urls
}
