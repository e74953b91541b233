package cms

import "strings"

// ResolveImageURL turns an image reference into an absolute URL. It returns ""
// for a nil image or empty url, returns absolute URLs unchanged and otherwise
// prefixes origin. Separators are not normalized: the path is expected to
// start with "/".
func ResolveImageURL(origin string, img *Image) string {
	if img == nil || img.URL == "" {
		return ""
	}
	if strings.HasPrefix(img.URL, "http") {
		return img.URL
	}
	return origin + img.URL
}

// ImageURL resolves img against the client's origin.
func (c *Client) ImageURL(img *Image) string {
	return ResolveImageURL(c.origin, img)
}
