package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"school-service/pkg/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Manager owns the single upstream Mongo client and memoizes per-tenant
// database handles. Handles are never evicted for the process lifetime:
// the set of schools is bounded and a handle is cheap once constructed.
type Manager struct {
	client     *mongo.Client
	mainDBName string

	mu      sync.RWMutex
	tenants map[string]*mongo.Database
}

var manager *Manager

// NewManager builds a manager around a fresh client. The driver connects
// lazily, so this performs no I/O; callers that need to fail fast on a bad
// endpoint should Ping afterwards.
func NewManager(uri, mainDBName string) (*Manager, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	return &Manager{
		client:     client,
		mainDBName: mainDBName,
		tenants:    make(map[string]*mongo.Database),
	}, nil
}

// InitDB initializes the shared manager and verifies the upstream endpoint.
// A misconfigured endpoint fails here, at startup, never per request.
func InitDB(cfg *config.Config) error {
	m, err := NewManager(cfg.Mongo.URI, cfg.Mongo.MainDBName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to reach mongo at startup: %w", err)
	}

	manager = m
	return nil
}

// GetManager returns the shared manager instance
func GetManager() *Manager {
	return manager
}

// MainDB returns the control-plane database handle
func (m *Manager) MainDB() *mongo.Database {
	return m.client.Database(m.mainDBName)
}

// Tenant returns the handle for the named tenant database, creating and
// caching it on first use. Concurrent callers with the same name observe
// exactly one construction (double-check on write).
func (m *Manager) Tenant(name string) *mongo.Database {
	m.mu.RLock()
	db, ok := m.tenants[name]
	m.mu.RUnlock()
	if ok {
		return db
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if db, ok := m.tenants[name]; ok {
		return db
	}
	db = m.client.Database(name)
	m.tenants[name] = db
	return db
}

// TenantCount reports how many tenant handles are cached
func (m *Manager) TenantCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tenants)
}

// Disconnect closes the underlying client
func (m *Manager) Disconnect(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// SchoolDBName derives the tenant database name for a school identifier
func SchoolDBName(schoolID string) string {
	return "school_" + schoolID
}
