package cms

import (
	"bytes"
	"encoding/json"
)

// Envelope wraps every response from the content API.
type Envelope[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}

// Meta carries response metadata. Pagination is only set by list endpoints.
type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Image references an uploaded media file. URL is either absolute or a path
// relative to the backend origin.
type Image struct {
	URL string `json:"url"`
}

// Project is a published portfolio project.
type Project struct {
	ID          int         `json:"id,omitempty"`
	DocumentID  string      `json:"documentId,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Image       *Image      `json:"image,omitempty"`
	Tags        []string    `json:"tags"`
	Date        string      `json:"date"`
	URL         *string     `json:"url,omitempty"`
	Slug        string      `json:"slug"`
	Body        RichContent `json:"body"`
}

// ExternalURL returns the project's external link or "".
func (p Project) ExternalURL() string {
	if p.URL == nil {
		return ""
	}
	return *p.URL
}

// Homepage is the singleton homepage copy.
type Homepage struct {
	Heading string `json:"heading"`
	Intro   string `json:"intro"`
}

var jsonNull = []byte("null")

// RichContent holds a rich-text body exactly as the backend sent it. Its
// structure is not validated here; renderers decode it with Decode.
type RichContent struct {
	raw json.RawMessage
}

// NewRichContent wraps raw JSON.
func NewRichContent(raw []byte) RichContent {
	return RichContent{raw: append(json.RawMessage(nil), raw...)}
}

// Raw returns the undecoded JSON, or nil when the body is absent.
func (r RichContent) Raw() json.RawMessage {
	if r.IsZero() {
		return nil
	}
	return r.raw
}

// IsZero reports whether the body is absent or JSON null.
func (r RichContent) IsZero() bool {
	trimmed := bytes.TrimSpace(r.raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull)
}

// Decode unmarshals the body into v.
func (r RichContent) Decode(v any) error {
	if r.IsZero() {
		return json.Unmarshal(jsonNull, v)
	}
	return json.Unmarshal(r.raw, v)
}

func (r RichContent) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return jsonNull, nil
	}
	return r.raw, nil
}

func (r *RichContent) UnmarshalJSON(b []byte) error {
	r.raw = append(r.raw[:0], b...)
	return nil
}
