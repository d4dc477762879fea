// Package lists provides the remote node, cache and group lists. Every
// fetch is bounded by a timeout; on any failure, or when the document
// lacks the requested list, the bundled offline list is returned instead.
// Successful documents are kept for a TTL so repeated lookups do not hit
// the network.
package lists

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	cache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

//go:embed fallback/*.json
var fallbackFS embed.FS

const (
	DefaultTimeout = 5 * time.Second
	DefaultTTL     = 10 * time.Minute
)

type Service struct {
	fetcher   Fetcher
	nodeURL   string
	groupsURL string
	timeout   time.Duration
	cache     *cache.Cache
	inflight  singleflight.Group
	log       logging.Logger

	fallbackNodes  nodeDocument
	fallbackGroups groupDocument
}

type Option func(*Service)

func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithTTL sets how long a fetched document is reused. Non-positive
// values are ignored.
func WithTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.cache = cache.New(d, 2*d)
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New returns a Service fetching nodes and caches from nodeURL and groups
// from groupsURL. An empty URL always yields the bundled list.
func New(fetcher Fetcher, nodeURL, groupsURL string, opts ...Option) (*Service, error) {
	s := &Service{
		fetcher:   fetcher,
		nodeURL:   nodeURL,
		groupsURL: groupsURL,
		timeout:   DefaultTimeout,
		cache:     cache.New(DefaultTTL, 2*DefaultTTL),
		log:       logging.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}

	if err := loadFallback("fallback/nodes.json", &s.fallbackNodes); err != nil {
		return nil, err
	}
	if err := loadFallback("fallback/groups.json", &s.fallbackGroups); err != nil {
		return nil, err
	}
	return s, nil
}

func loadFallback(name string, v any) error {
	data, err := fallbackFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read bundled list %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse bundled list %s: %w", name, err)
	}
	return nil
}

// Nodes returns the daemon list.
func (s *Service) Nodes(ctx context.Context) []Node {
	var doc nodeDocument
	if s.document(ctx, s.nodeURL, &doc) && len(doc.Nodes) > 0 {
		return doc.Nodes
	}
	return clone(s.fallbackNodes.Nodes)
}

// Caches returns the blockchain cache list. It is read from the same
// document as Nodes.
func (s *Service) Caches(ctx context.Context) []API {
	var doc nodeDocument
	if s.document(ctx, s.nodeURL, &doc) && len(doc.APIs) > 0 {
		return doc.APIs
	}
	return clone(s.fallbackNodes.APIs)
}

// Groups returns the standard group list.
func (s *Service) Groups(ctx context.Context) []Group {
	var doc groupDocument
	if s.document(ctx, s.groupsURL, &doc) && len(doc.Groups) > 0 {
		return doc.Groups
	}
	return clone(s.fallbackGroups.Groups)
}

// Refresh fetches every list concurrently. It never fails: each list
// falls back independently.
func (s *Service) Refresh(ctx context.Context) Snapshot {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Nodes = s.Nodes(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Caches = s.Caches(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Groups = s.Groups(gctx)
		return nil
	})
	_ = g.Wait()
	return snap
}

// Invalidate drops every cached document.
func (s *Service) Invalidate() {
	s.cache.Flush()
}

// document decodes the JSON at url into v, from the cache when possible.
// It reports whether v was filled.
func (s *Service) document(ctx context.Context, url string, v any) bool {
	if url == "" {
		return false
	}

	if body, ok := s.cache.Get(url); ok {
		return json.Unmarshal(body.([]byte), v) == nil
	}

	// concurrent lookups of one url share a single request
	res, err, _ := s.inflight.Do(url, func() (any, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		body, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		if !json.Valid(body) {
			return nil, fmt.Errorf("%w: invalid list document from %q", common.ErrNetwork, url)
		}
		s.cache.SetDefault(url, body)
		return body, nil
	})
	if err == nil {
		if err = json.Unmarshal(res.([]byte), v); err != nil {
			err = fmt.Errorf("%w: unexpected list document: %w", common.ErrNetwork, err)
		}
	}
	if err != nil {
		s.log.Warn(ctx, "list fetch failed, using bundled list", "url", url, "error", err)
		return false
	}
	return true
}

func clone[T any](in []T) []T {
	return append([]T(nil), in...)
}
