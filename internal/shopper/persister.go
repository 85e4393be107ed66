package shopper

import (
	"context"
	"encoding/json"
	"time"

	"github.com/threadline-app/threadline-backend/pkg/kv"
	"github.com/threadline-app/threadline-backend/pkg/logger"
	"github.com/threadline-app/threadline-backend/pkg/metrics"
)

const writeTimeout = 5 * time.Second

type snapshotWrite struct {
	namespace string
	shopperID string
	snapshot  any
}

// Persister listens for state-changed notifications and serializes snapshots
// to the key-value collaborator in the background. Writes are fire-and-forget:
// a failure is logged and counted, never surfaced to the mutation caller. The
// in-memory state stays authoritative for the session either way.
type Persister struct {
	store   kv.Store
	logg    *logger.Logger
	metrics *metrics.CommerceMetrics
	queue   chan snapshotWrite
}

// NewPersister builds a persister with a bounded write queue.
func NewPersister(store kv.Store, logg *logger.Logger, m *metrics.CommerceMetrics, queueSize int) *Persister {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Persister{
		store:   store,
		logg:    logg,
		metrics: m,
		queue:   make(chan snapshotWrite, queueSize),
	}
}

// Enqueue hands a snapshot to the background writer without blocking the
// mutation path. A full queue drops the write and counts it as a failure.
func (p *Persister) Enqueue(namespace, shopperID string, snapshot any) {
	select {
	case p.queue <- snapshotWrite{namespace: namespace, shopperID: shopperID, snapshot: snapshot}:
	default:
		p.metrics.IncPersistFailure(namespace)
		if p.logg != nil {
			ctx := p.logg.WithShopperID(context.Background(), shopperID)
			p.logg.Warn(ctx, "persist queue full, snapshot dropped")
		}
	}
}

// Run drains the queue until ctx is cancelled.
func (p *Persister) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case write := <-p.queue:
			p.flush(write)
		}
	}
}

func (p *Persister) flush(write snapshotWrite) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if p.logg != nil {
		ctx = p.logg.WithShopperID(ctx, write.shopperID)
		ctx = p.logg.WithField(ctx, "namespace", write.namespace)
	}

	payload, err := json.Marshal(write.snapshot)
	if err != nil {
		p.metrics.IncPersistFailure(write.namespace)
		if p.logg != nil {
			p.logg.Error(ctx, "snapshot marshal failed", err)
		}
		return
	}

	if err := p.store.Set(ctx, kv.Key(write.namespace, write.shopperID), string(payload)); err != nil {
		p.metrics.IncPersistFailure(write.namespace)
		if p.logg != nil {
			p.logg.Error(ctx, "snapshot write failed", err)
		}
		return
	}
	p.metrics.IncPersistWrite(write.namespace)
}

// Drain flushes queued writes synchronously; used by tests and shutdown.
func (p *Persister) Drain() {
	for {
		select {
		case write := <-p.queue:
			p.flush(write)
		default:
			return
		}
	}
}
