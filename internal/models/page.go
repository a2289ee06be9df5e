package models

type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// Page is one cursor-delimited slice of a backend collection.
type Page[T any] struct {
	Items      []T      `json:"items"`
	PageInfo   PageInfo `json:"pageInfo"`
	TotalCount int      `json:"totalCount"`

	// NotModified is set when the backend answered 304. Items then holds the
	// cached copy if the client kept one and is empty otherwise.
	NotModified bool `json:"-"`
}
