package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/folio-content/internal/config"
	"github.com/samvad-hq/folio-content/internal/logger"
	"github.com/samvad-hq/folio-content/internal/preview"
	"github.com/samvad-hq/folio-content/internal/storage"
	"github.com/samvad-hq/folio-content/internal/watcher"
	"github.com/samvad-hq/folio-content/pkg/cms"
	"github.com/samvad-hq/folio-content/pkg/httpclient"
	"github.com/samvad-hq/folio-content/pkg/publishers"
)

// syncRunner is the part of watcher.Service the loop drives.
type syncRunner interface {
	Run(ctx context.Context) (watcher.Result, error)
}

// Watcher is the content watcher runtime. It owns the sync loop and the
// resources (store, publishers) the sync service uses.
type Watcher struct {
	cfg          *config.Config
	fanout       *publishers.Fanout
	sync         syncRunner
	syncInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewClient builds the CMS client described by cfg.
func NewClient(cfg *config.Config, log logger.Logger) (*cms.Client, error) {
	return cms.New(cfg.StrapiURL,
		cms.WithHTTPClient(httpclient.NewRestyClient(cfg.StrapiTimeout)),
		cms.WithAPIToken(cfg.StrapiAPIToken),
		cms.WithLogger(logger.Ensure(log)),
	)
}

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := NewClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init cms client: %w", err)
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	storeOpts := storage.Options{
		EntryTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"entry_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	var previewer watcher.LinkPreviewer
	if cfg.PreviewEnabled {
		previewer = preview.NewScraper(httpclient.NewRestyClient(cfg.StrapiTimeout), cfg.PreviewDelay, log)
	}

	return &Watcher{
		cfg:          cfg,
		fanout:       fanout,
		sync:         watcher.NewService(client, fanout, store, previewer, log, cfg.SyncPageSize),
		syncInterval: cfg.SyncInterval,
		log:          log,
		store:        store,
	}, nil
}

// Run starts the sync loop until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.sync == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.close()

	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"strapi_url":       w.cfg.StrapiURL,
		"publishers_count": w.fanout.Size(),
		"sync_interval":    w.syncInterval.String(),
	})

	if err := w.runOnce(ctx); err != nil {
		w.log.ErrorObj("initial sync failed", "error", err)
	}

	ticker := time.NewTicker(w.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.log.ErrorObj("scheduled sync failed", "error", err)
			}
		}
	}
}

// runOnce performs a single sync pass.
func (w *Watcher) runOnce(ctx context.Context) error {
	start := time.Now()
	w.log.InfoObj("sync started", "sync_meta", map[string]any{
		"started_at": start.UTC(),
	})
	res, err := w.sync.Run(ctx)
	w.log.InfoObj("sync completed", "sync_meta", map[string]any{
		"projects_seen":     res.ProjectsSeen,
		"projects_changed":  res.ProjectsChanged,
		"homepage_changed":  res.HomepageChanged,
		"events_published":  res.EventsPublished,
		"previews_attached": res.PreviewsAttached,
		"elapsed_ms":        time.Since(start).Milliseconds(),
	})
	return err
}

// close releases the store and publishers, logging any errors encountered.
func (w *Watcher) close() {
	if w.store != nil {
		if err := w.store.Close(); err != nil {
			w.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if err := w.fanout.Close(); err != nil {
		w.log.ErrorObj("publishers close failed", "error", err)
	}
}
