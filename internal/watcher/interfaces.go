package watcher

import (
	"context"

	"github.com/samvad-hq/folio-content/internal/preview"
	"github.com/samvad-hq/folio-content/pkg/cms"
	"github.com/samvad-hq/folio-content/pkg/publishers"
)

// ContentSource is the subset of cms.Client the watcher reads from.
type ContentSource interface {
	AllProjects(ctx context.Context, pageSize int) ([]cms.Project, error)
	GetHomepage(ctx context.Context) (*cms.Homepage, error)
	ImageURL(img *cms.Image) string
}

// LinkPreviewer enriches external project links with page metadata.
type LinkPreviewer interface {
	Enrich(ctx context.Context, urls []string) map[string]preview.LinkPreview
}

// EventPublisher publishes change events downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which fingerprints were already published.
type Deduper interface {
	Changed(key, fingerprint string) (bool, error)
	Remember(key, fingerprint string) error
}
