package publishers

import (
	"time"

	"github.com/samvad-hq/folio-content/internal/preview"
	"github.com/samvad-hq/folio-content/pkg/cms"
)

// Event kinds.
const (
	KindProjectChanged  = "project.changed"
	KindHomepageChanged = "homepage.changed"
)

// Event represents the payload published downstream when content changes.
type Event struct {
	Kind        string               `json:"kind"`
	Key         string               `json:"key"`
	Slug        string               `json:"slug,omitempty"`
	Fingerprint string               `json:"fingerprint"`
	Project     *cms.Project         `json:"project,omitempty"`
	ImageURL    string               `json:"image_url,omitempty"`
	Preview     *preview.LinkPreview `json:"preview,omitempty"`
	Homepage    *cms.Homepage        `json:"homepage,omitempty"`
	DetectedAt  time.Time            `json:"detected_at"`
}

// NewProjectEvent constructs an Event for a new or edited project.
func NewProjectEvent(p cms.Project, imageURL, fingerprint string) Event {
	return Event{
		Kind:        KindProjectChanged,
		Key:         ProjectKey(p.Slug),
		Slug:        p.Slug,
		Fingerprint: fingerprint,
		Project:     &p,
		ImageURL:    imageURL,
		DetectedAt:  time.Now().UTC(),
	}
}

// NewHomepageEvent constructs an Event for edited homepage copy.
func NewHomepageEvent(h cms.Homepage, fingerprint string) Event {
	return Event{
		Kind:        KindHomepageChanged,
		Key:         HomepageKey,
		Fingerprint: fingerprint,
		Homepage:    &h,
		DetectedAt:  time.Now().UTC(),
	}
}

// HomepageKey identifies the homepage singleton.
const HomepageKey = "homepage"

// ProjectKey identifies a project by slug.
func ProjectKey(slug string) string { return "project:" + slug }

// attributes are the routing attributes attached to queue/topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"kind": e.Kind,
		"key":  e.Key,
	}
}
