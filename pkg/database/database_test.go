package database

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// The driver connects lazily, so manager tests never need a live server.
func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("mongodb://localhost:27017", "space_together_test")
	require.NoError(t, err)
	return m
}

func TestMainDB(t *testing.T) {
	m := newTestManager(t)
	assert.Equal(t, "space_together_test", m.MainDB().Name())
}

func TestTenantHandlesAreDisjoint(t *testing.T) {
	m := newTestManager(t)

	a := m.Tenant("school_a")
	b := m.Tenant("school_b")

	assert.Equal(t, "school_a", a.Name())
	assert.Equal(t, "school_b", b.Name())
	assert.NotEqual(t, a.Name(), b.Name())
	assert.Equal(t, 2, m.TenantCount())
}

func TestTenantHandleMemoized(t *testing.T) {
	m := newTestManager(t)

	first := m.Tenant("school_x")
	second := m.Tenant("school_x")

	assert.Same(t, first, second)
	assert.Equal(t, 1, m.TenantCount())
}

func TestTenantConcurrentAccessSingleConstruction(t *testing.T) {
	m := newTestManager(t)

	const workers = 64
	handles := make([]*mongo.Database, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			handles[i] = m.Tenant("school_concurrent")
		}(i)
	}
	wg.Wait()

	// Every caller must observe the same underlying handle
	for i := 1; i < workers; i++ {
		assert.Same(t, handles[0], handles[i])
	}
	assert.Equal(t, 1, m.TenantCount())
}

func TestSchoolDBName(t *testing.T) {
	assert.Equal(t, "school_abc", SchoolDBName("abc"))
	assert.Equal(t, "school_650000000000000000000001", SchoolDBName("650000000000000000000001"))
}
