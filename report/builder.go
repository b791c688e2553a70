// Package report collects compatibility rows for every configured service and
// renders one table per subject.
package report

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cicompat/cicompat/cierrors"
	"github.com/cicompat/cicompat/compat"
	"github.com/cicompat/cicompat/config"
	"github.com/cicompat/cicompat/document"
	"github.com/cicompat/cicompat/logging"
	"github.com/cicompat/cicompat/pipeline"
	"github.com/cicompat/cicompat/versions"
)

// DefaultConcurrency is the number of services processed at once.
const DefaultConcurrency = 4

// TagLister lists the tags of an (encoded) project.
type TagLister interface {
	Tags(ctx context.Context, project string) ([]string, error)
}

// Source is what a Builder reads from. *gitlab.Client satisfies it.
type Source interface {
	pipeline.Fetcher
	TagLister
}

// Builder produces compatibility rows from a configuration.
type Builder struct {
	cfg         *config.Config
	src         Source
	logger      logging.Logger
	concurrency int
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used to report skipped matrix items.
func WithLogger(l logging.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithConcurrency bounds how many services are processed in parallel.
// Values below 1 mean sequential processing.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		b.concurrency = n
	}
}

// NewBuilder returns a Builder for cfg reading from src.
func NewBuilder(cfg *config.Config, src Source, opts ...Option) *Builder {
	b := &Builder{cfg: cfg, src: src, concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logging.OrNop(b.logger)
	if b.concurrency < 1 {
		b.concurrency = 1
	}
	return b
}

// Rows returns the rows of every service in configuration order. Within a
// service, rows follow its latest major tags (highest first), then its matrix
// items, then the declared versions.
//
// A matrix item whose path does not resolve, or does not hold a version list,
// yields one absent row so the service still shows up in the subject's table.
// Any other failure (listing tags, fetching, parsing, a malformed include,
// too few major lines) aborts the run.
func (b *Builder) Rows(ctx context.Context) ([]compat.Row, error) {
	slots := make([][]compat.Row, len(b.cfg.Services))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, svc := range b.cfg.Services {
		g.Go(func() error {
			rows, err := b.serviceRows(ctx, svc)
			if err != nil {
				return fmt.Errorf("report: service %q: %w", svc.Name, err)
			}
			slots[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var rows []compat.Row
	for _, s := range slots {
		rows = append(rows, s...)
	}
	return rows, nil
}

func (b *Builder) serviceRows(ctx context.Context, svc config.Service) ([]compat.Row, error) {
	log := b.logger.With("service", svc.Name)
	project := pipeline.EncodeSlashes(svc.CI.ProjectID)

	tags, err := b.src.Tags(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	if _, rejected := versions.FilterStable(tags); len(rejected) > 0 {
		log.Debug("ignoring tags outside major lines", "count", len(rejected))
	}
	majors, err := versions.LatestMajors(tags, b.cfg.Majors)
	if err != nil {
		return nil, err
	}

	var rows []compat.Row
	for _, tag := range majors {
		identity := svc.Name + "@" + tag
		root, err := b.fetchPipeline(ctx, project, tag, identity)
		if err != nil {
			return nil, err
		}

		for _, m := range svc.Matrix {
			found, err := m.Item().Versions(ctx, root, b.src)
			switch {
			case errors.Is(err, cierrors.ErrLookup), errors.Is(err, cierrors.ErrExtract):
				log.Warn("matrix item not resolved", "tag", tag, "subject", m.Name, "path", m.Path, "error", err)
				rows = append(rows, compat.AbsentRow(identity, m.Name))
				continue
			case err != nil:
				return nil, fmt.Errorf("%s: subject %q: %w", identity, m.Name, err)
			}

			if len(found) == 0 {
				rows = append(rows, compat.AbsentRow(identity, m.Name))
				continue
			}
			for _, v := range found {
				rows = append(rows, compat.NewRow(identity, m.Name, v))
			}
		}
		log.Debug("resolved pipeline", "tag", tag, "rows", len(rows))
	}
	return rows, nil
}

func (b *Builder) fetchPipeline(ctx context.Context, project, tag, identity string) (*document.Node, error) {
	data, err := b.src.FetchFile(ctx, project, pipeline.EncodeSlashes(b.cfg.CIFile), tag)
	if err != nil {
		return nil, fmt.Errorf("fetch %s at %s: %w", b.cfg.CIFile, tag, err)
	}
	return document.ParseNamed(identity+":"+b.cfg.CIFile, data)
}
