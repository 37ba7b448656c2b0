package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"sareeapi/models"
	"sareeapi/pkg/logger"
	"sareeapi/services"
	"sareeapi/workflow"
)

// Session is the working context of one signed-in operator.
type Session struct {
	ID          string
	Username    string
	CreatedAt   time.Time
	Credentials *CredentialStore
	Vendors     *VendorRegistry
	Workflow    *workflow.Workflow

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

type StoreOptions struct {
	Gateway       services.GenerationGateway
	Events        workflow.EventSink
	DefaultAPIKey string
	IdleTTL       time.Duration
	Now           func() time.Time
}

// Store keeps the live sessions in memory. Nothing survives a restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     StoreOptions
	cron     *cron.Cron
}

func NewStore(opts StoreOptions) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 2 * time.Hour
	}
	return &Store{sessions: make(map[string]*Session), opts: opts}
}

func (st *Store) Create(user models.User) *Session {
	now := st.opts.Now()
	id := uuid.New().String()
	s := &Session{
		ID:          id,
		Username:    user.Username,
		CreatedAt:   now,
		Credentials: NewCredentialStore(st.opts.DefaultAPIKey),
		Vendors:     NewVendorRegistry(),
		lastSeen:    now,
	}
	s.Workflow = workflow.New(workflow.Options{
		Gateway:     st.opts.Gateway,
		Credentials: s.Credentials,
		Events:      st.opts.Events,
		SessionID:   id,
		Now:         st.opts.Now,
	})

	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()
	logger.Info("Session created", logger.Fields{"session_id": id, "username": user.Username})
	return s
}

// Get returns the session and marks it as used.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.touch(st.opts.Now())
	return s, nil
}

// Delete discards a session and cancels its running batches.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.Workflow.Close()
	logger.Info("Session closed", logger.Fields{"session_id": id, "username": s.Username})
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the TTL. Sessions with running batches are kept.
func (st *Store) Sweep() int {
	cutoff := st.opts.Now().Add(-st.opts.IdleTTL)
	var expired []string
	st.mu.RLock()
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) && s.Workflow.ActiveRuns() == 0 {
			expired = append(expired, id)
		}
	}
	st.mu.RUnlock()

	for _, id := range expired {
		_ = st.Delete(id)
	}
	if len(expired) > 0 {
		logger.Info("Swept idle sessions", logger.Fields{"count": len(expired)})
	}
	return len(expired)
}

// StartSweeper runs Sweep on the cron schedule until Stop is called.
func (st *Store) StartSweeper(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { st.Sweep() }); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	st.cron = c
	c.Start()
	logger.Info("Session sweeper started", logger.Fields{"schedule": schedule})
	return nil
}

// Stop halts the sweeper and closes every session.
func (st *Store) Stop() {
	if st.cron != nil {
		<-st.cron.Stop().Done()
	}
	st.mu.RLock()
	ids := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	st.mu.RUnlock()
	for _, id := range ids {
		_ = st.Delete(id)
	}
}
