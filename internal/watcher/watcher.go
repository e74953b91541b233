package watcher

import (
	"context"
	"crypto/sha1" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samvad-hq/folio-content/internal/logger"
	"github.com/samvad-hq/folio-content/internal/preview"
	"github.com/samvad-hq/folio-content/pkg/cms"
	"github.com/samvad-hq/folio-content/pkg/publishers"
)

const defaultPageSize = 25

// Service runs sync passes: read published content, detect changes, publish them.
type Service struct {
	source    ContentSource
	publisher EventPublisher
	deduper   Deduper
	previewer LinkPreviewer
	log       logger.Logger
	pageSize  int
}

// Result summarizes one sync pass.
type Result struct {
	ProjectsSeen     int
	ProjectsChanged  int
	HomepageChanged  bool
	EventsPublished  int
	PreviewsAttached int
}

// NewService wires a watcher. previewer may be nil to skip link previews.
func NewService(source ContentSource, publisher EventPublisher, deduper Deduper, previewer LinkPreviewer, log logger.Logger, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Service{
		source:    source,
		publisher: publisher,
		deduper:   deduper,
		previewer: previewer,
		log:       logger.Ensure(log),
		pageSize:  pageSize,
	}
}

// Run executes a single sync pass. Per-item failures are collected and
// returned joined; the pass keeps going after them.
func (s *Service) Run(ctx context.Context) (Result, error) {
	var res Result
	if s == nil || s.source == nil || s.publisher == nil || s.deduper == nil {
		return res, fmt.Errorf("watcher service is not initialized")
	}

	var errs []error
	if err := s.syncProjects(ctx, &res); err != nil {
		errs = append(errs, err)
	}
	if err := s.syncHomepage(ctx, &res); err != nil {
		errs = append(errs, err)
	}
	return res, errors.Join(errs...)
}

type pendingProject struct {
	project     cms.Project
	fingerprint string
}

func (s *Service) syncProjects(ctx context.Context, res *Result) error {
	projects, err := s.source.AllProjects(ctx, s.pageSize)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	res.ProjectsSeen = len(projects)

	pending := s.filterChanged(projects)
	res.ProjectsChanged = len(pending)
	if len(pending) == 0 {
		return nil
	}

	previews := s.previews(ctx, pending)

	var errs []error
	for _, item := range pending {
		if ctx.Err() != nil {
			return errors.Join(append(errs, ctx.Err())...)
		}

		evt := publishers.NewProjectEvent(item.project, s.source.ImageURL(item.project.Image), item.fingerprint)
		if p, ok := previews[item.project.ExternalURL()]; ok {
			evt.Preview = &p
			res.PreviewsAttached++
		}
		if err := s.publish(ctx, evt); err != nil {
			errs = append(errs, err)
			continue
		}
		res.EventsPublished++
	}
	return errors.Join(errs...)
}

// filterChanged keeps projects whose fingerprint is new. The first project
// wins when slugs repeat. Store lookup failures count as changed.
func (s *Service) filterChanged(projects []cms.Project) []pendingProject {
	seen := make(map[string]struct{}, len(projects))
	out := make([]pendingProject, 0, len(projects))

	for _, p := range projects {
		if _, dup := seen[p.Slug]; dup {
			s.log.WarnObj("duplicate project slug ignored", "project_slug", p.Slug)
			continue
		}
		seen[p.Slug] = struct{}{}

		fp, err := fingerprint(p)
		if err != nil {
			s.log.ErrorObj("project fingerprint failed", "project_error", map[string]any{
				"slug":  p.Slug,
				"error": err.Error(),
			})
			continue
		}

		changed, err := s.deduper.Changed(publishers.ProjectKey(p.Slug), fp)
		if err != nil {
			s.log.WarnObj("fingerprint lookup failed; treating as changed", "store_error", map[string]any{
				"slug":  p.Slug,
				"error": err.Error(),
			})
			changed = true
		}
		if changed {
			out = append(out, pendingProject{project: p, fingerprint: fp})
		}
	}
	return out
}

func (s *Service) previews(ctx context.Context, pending []pendingProject) map[string]preview.LinkPreview {
	if s.previewer == nil {
		return nil
	}
	urls := make([]string, 0, len(pending))
	for _, item := range pending {
		if u := item.project.ExternalURL(); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return nil
	}
	return s.previewer.Enrich(ctx, urls)
}

func (s *Service) syncHomepage(ctx context.Context, res *Result) error {
	home, err := s.source.GetHomepage(ctx)
	if err != nil {
		return fmt.Errorf("get homepage: %w", err)
	}
	if home == nil {
		s.log.DebugObj("homepage not published", "key", publishers.HomepageKey)
		return nil
	}

	fp, err := fingerprint(home)
	if err != nil {
		return fmt.Errorf("fingerprint homepage: %w", err)
	}
	changed, err := s.deduper.Changed(publishers.HomepageKey, fp)
	if err != nil {
		s.log.WarnObj("fingerprint lookup failed; treating as changed", "store_error", map[string]any{
			"key":   publishers.HomepageKey,
			"error": err.Error(),
		})
		changed = true
	}
	if !changed {
		return nil
	}

	res.HomepageChanged = true
	if err := s.publish(ctx, publishers.NewHomepageEvent(*home, fp)); err != nil {
		return err
	}
	res.EventsPublished++
	return nil
}

// publish delivers evt and remembers its fingerprint once any sink accepted it.
func (s *Service) publish(ctx context.Context, evt publishers.Event) error {
	delivered, err := s.publisher.Publish(ctx, evt)
	if delivered == 0 {
		if err == nil {
			err = errors.New("no publishers accepted the event")
		}
		return fmt.Errorf("publish %s: %w", evt.Key, err)
	}
	if err != nil {
		s.log.WarnObj("event partially published", "publish_error", map[string]any{
			"key":       evt.Key,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}

	if err := s.deduper.Remember(evt.Key, evt.Fingerprint); err != nil {
		return fmt.Errorf("remember %s: %w", evt.Key, err)
	}
	s.log.InfoObj("content change published", "content_event", map[string]any{
		"kind":      evt.Kind,
		"key":       evt.Key,
		"delivered": delivered,
	})
	return nil
}

// fingerprint hashes the canonical JSON encoding of v.
func fingerprint(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum(raw)
	return hex.EncodeToString(sum[:]), nil
}
