package skein

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// idBytes is the identifier width: 128 bits, rendered as 32 lowercase
// hex characters. Collision probability is negligible over the lifetime
// of a process, so uniqueness is never enforced downstream.
const idBytes = 16

// GenerateID returns a new random identifier for traces and spans.
func GenerateID() string {
	return generateID(clockz.RealClock)
}

func generateID(clock clockz.Clock) string {
	buf := make([]byte, idBytes)
	if _, err := rand.Read(buf); err != nil {
		// Fallback to a time-based ID if crypto/rand fails.
		return hex.EncodeToString([]byte(clock.Now().Format(time.RFC3339Nano)))
	}
	return hex.EncodeToString(buf)
}

// IDPool manages a pool of pre-generated IDs to amortize crypto/rand
// overhead on hot paths. Get never blocks: an empty pool falls back to
// generating directly.
type IDPool struct {
	factory func() string
	ids     chan string
	stopCh  chan struct{}
	mu      sync.Mutex
	closed  bool
}

// NewIDPool creates a pool holding up to capacity IDs, kept topped up by
// a background goroutine.
func NewIDPool(capacity int, factory func() string) *IDPool {
	pool := &IDPool{
		ids:     make(chan string, capacity),
		factory: factory,
		stopCh:  make(chan struct{}),
	}
	go pool.refill()
	return pool
}

// Get retrieves a pooled ID, or generates one directly under burst load.
func (p *IDPool) Get() string {
	select {
	case id := <-p.ids:
		return id
	default:
		return p.factory()
	}
}

func (p *IDPool) refill() {
	for {
		select {
		case p.ids <- p.factory():
		case <-p.stopCh:
			return
		}
	}
}

// Close stops the refill goroutine. Safe to call more than once.
func (p *IDPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		close(p.stopCh)
		p.closed = true
	}
}
