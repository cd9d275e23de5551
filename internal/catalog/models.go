package catalog

import "io"

// Item is a catalog product as stored in the "products" collection.
// ImageURL is the public URL of the blob currently linked to the item.
type Item struct {
	ID          string `json:"id" bson:"-"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
	ImageURL    string `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
}

// Patch lists the fields written by an update. Name and Description are
// always written; ImageURL only when non-nil.
type Patch struct {
	Name        string
	Description string
	ImageURL    *string
}

// Upload is an image received from a client, not yet stored.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
