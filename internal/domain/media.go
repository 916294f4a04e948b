package domain

// MediaReference points at a stored binary asset: the storage key plus the
// public URL clients use to retrieve it.
type MediaReference struct {
	StorageID string `json:"storage_id"`
	URL       string `json:"url"`
}
