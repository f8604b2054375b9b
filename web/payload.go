package web

import "github.com/goliatone/go-storefront/catalog"

// HomePayload is rendered by the index template.
type HomePayload struct {
	catalog.Snapshot
	CartCount int64
}

// DetailPayload is rendered by the detail template.
type DetailPayload struct {
	catalog.Detail
	CartCount int64
}

// ListingPayload is rendered by the list template.
type ListingPayload struct {
	catalog.Listing
	CartCount int64
}
