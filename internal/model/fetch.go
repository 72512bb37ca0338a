package model

// FetchMeta contains HTTP metadata from fetching a book source
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	FromCache    bool              `json:"from_cache,omitempty"`
}
