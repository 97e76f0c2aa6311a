package store

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/campusdesk/internal/app/client"
)

// refreshParallelism caps how many sessions re-fetch at the same time
const refreshParallelism = 4

// Session is the cache of one signed-in identity. Backend calls made on its
// behalf use the most recent token that identity presented.
type Session struct {
	Owner  string
	Stores *Stores

	mu    sync.Mutex
	token string
}

// Token returns the latest session token seen for the owner
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// RegistryConfig bounds the per-session caches
type RegistryConfig struct {
	// MaxSessions evicts the least recently used session beyond this count; 0 disables the limit
	MaxSessions int
	// IdleTTL drops a session not used for this long; 0 keeps it until evicted by size
	IdleTTL time.Duration
	// WarmUp hydrates every collection of a new session in the background
	WarmUp bool
	// WarmUpTimeout bounds the background hydration
	WarmUpTimeout time.Duration
}

// Registry owns one Stores per session. The backend scopes every read by the
// caller's token, so a cache filled for one identity is never served to
// another.
type Registry struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
	build    func(owner string) *Stores
	cfg      RegistryConfig
	logger   zerolog.Logger
}

// NewRegistry creates an empty registry; build constructs the stores of a new session
func NewRegistry(build func(owner string) *Stores, cfg RegistryConfig, lgr zerolog.Logger) *Registry {
	r := &Registry{
		build:  build,
		cfg:    cfg,
		logger: lgr.With().Str("component", "sessions").Logger(),
	}
	r.sessions = expirable.NewLRU[string, *Session](cfg.MaxSessions, r.evicted, cfg.IdleTTL)
	return r
}

func (r *Registry) evicted(owner string, _ *Session) {
	r.logger.Debug().Str("session", owner).Msg("Session cache evicted")
}

// Acquire returns the stores of owner, creating them on first use, and
// pushes back the session's idle deadline.
func (r *Registry) Acquire(owner, token string) *Stores {
	r.mu.Lock()
	sess, ok := r.sessions.Get(owner)
	if !ok {
		sess = &Session{Owner: owner, Stores: r.build(owner)}
	}
	sess.setToken(token)
	r.sessions.Add(owner, sess)
	r.mu.Unlock()

	if !ok {
		r.logger.Debug().Str("session", owner).Msg("Session cache created")
		if r.cfg.WarmUp {
			go r.warm(sess)
		}
	}
	return sess.Stores
}

// Lookup returns the stores of owner without touching its idle deadline
func (r *Registry) Lookup(owner string) (*Stores, bool) {
	sess, ok := r.sessions.Peek(owner)
	if !ok {
		return nil, false
	}
	return sess.Stores, true
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	return r.sessions.Len()
}

// RefreshAll re-fetches the collections of every live session with that
// session's own token. All sessions are attempted; the first failure is
// returned.
func (r *Registry) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	g.SetLimit(refreshParallelism)
	for _, sess := range r.sessions.Values() {
		sess := sess
		g.Go(func() error {
			return sess.Stores.RefreshAll(client.WithToken(ctx, sess.Token()))
		})
	}
	return g.Wait()
}

func (r *Registry) warm(sess *Session) {
	ctx := context.Background()
	if r.cfg.WarmUpTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.WarmUpTimeout)
		defer cancel()
	}
	if err := sess.Stores.RefreshAll(client.WithToken(ctx, sess.Token())); err != nil {
		r.logger.Warn().Err(err).Str("session", sess.Owner).Msg("Session warm-up incomplete")
	}
}
