// Package remotesync mirrors collection changes to an HTTP endpoint.
package remotesync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/iconsmith/internal/app/collections"
	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
	"github.com/alexisbeaulieu97/iconsmith/pkg/uuid"
)

// Subscriber is satisfied by the collection repository.
type Subscriber interface {
	Subscribe(ctx context.Context, handler collections.Handler) (ports.Subscription, error)
}

// Options configures a Syncer.
type Options struct {
	Endpoint string
	Timeout  time.Duration
	Client   *http.Client
}

// Syncer PUTs every collection whose serialized form changed since the last
// notification to <endpoint>/<id>. Pushes run on a background worker so the
// mutating caller never waits on the remote; several changes to one collection
// before its push are coalesced into the latest payload. Failures are logged
// and never returned to the mutating caller.
type Syncer struct {
	endpoint string
	client   *http.Client
	logger   ports.Logger

	mu       sync.Mutex
	previous map[string][]byte
	pending  map[string]pendingPush
	order    []string
	sub      ports.Subscription
	stopped  bool

	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

type pendingPush struct {
	ctx  context.Context
	body []byte
}

// Start subscribes to source and starts the push worker. The immediate
// notification records the baseline without pushing anything.
func Start(ctx context.Context, source Subscriber, opts Options, logger ports.Logger) (*Syncer, error) {
	if strings.TrimSpace(opts.Endpoint) == "" {
		return nil, apperrors.NewConfigurationError("sync.endpoint", "endpoint is required when sync is enabled")
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}

	s := &Syncer{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		client:   opts.Client,
		logger:   logger.With("layer", "infrastructure", "component", "remotesync"),
		pending:  make(map[string]pendingPush),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	sub, err := source.Subscribe(ctx, s.handle)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()

	go s.run()
	return s, nil
}

// Stop unsubscribes, waits for queued pushes to finish and ends the worker.
// It is safe to call more than once.
func (s *Syncer) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		sub := s.sub
		s.sub = nil
		s.stopped = true
		s.mu.Unlock()
		if sub != nil {
			sub.Unsubscribe()
		}
		close(s.stop)
		<-s.done
	})
}

func (s *Syncer) handle(ctx context.Context, list []icon.Collection) {
	current := make(map[string][]byte, len(list))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	first := s.previous == nil
	queued := false
	for _, c := range list {
		if uuid.IsEmpty(c.ID) {
			continue
		}
		data, err := json.Marshal(c)
		if err != nil {
			s.logger.Error(ctx, "serialize collection for sync failed", "collection_id", c.ID, "error", err)
			continue
		}
		current[c.ID] = data
		if first || bytes.Equal(s.previous[c.ID], data) {
			continue
		}
		if _, ok := s.pending[c.ID]; !ok {
			s.order = append(s.order, c.ID)
		}
		s.pending[c.ID] = pendingPush{ctx: context.WithoutCancel(ctx), body: data}
		queued = true
	}
	s.previous = current

	if queued {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

func (s *Syncer) run() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.drain()
		case <-s.stop:
			s.drain()
			return
		}
	}
}

// drain pushes queued collections until the queue is empty.
func (s *Syncer) drain() {
	for {
		s.mu.Lock()
		order, pending := s.order, s.pending
		s.order, s.pending = nil, make(map[string]pendingPush)
		s.mu.Unlock()

		if len(order) == 0 {
			return
		}
		for _, id := range order {
			job := pending[id]
			if err := s.push(job.ctx, id, job.body); err != nil {
				s.logger.Warn(job.ctx, "collection sync failed", "collection_id", id, "error", err)
				continue
			}
			s.logger.Debug(job.ctx, "collection synced", "collection_id", id)
		}
	}
}

func (s *Syncer) push(ctx context.Context, id string, body []byte) error {
	url := s.endpoint + "/" + id
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("put %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("put %s: unexpected status %s", url, resp.Status)
	}
	return nil
}
