package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/The-Unpaid-Developers/core-service/internal/domain"
)

type memoryCollection struct {
	collation *domain.Collation
}

// Catalog is an in-memory collection catalog for single-process use: dry runs and tests.
type Catalog struct {
	mu        sync.Mutex
	database  string
	databases map[string]map[string]*memoryCollection
	failures  map[string]error
	creates   []string
}

func NewCatalog() *Catalog {
	return &Catalog{
		databases: make(map[string]map[string]*memoryCollection),
		failures:  make(map[string]error),
	}
}

func (c *Catalog) Use(database string) error {
	if err := domain.ValidateDatabaseName(database); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.database = database
	return nil
}

func (c *Catalog) Database() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.database
}

func (c *Catalog) CreateCollection(ctx context.Context, spec domain.CollectionSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.database == "" {
		return domain.ErrNoDatabase
	}
	c.creates = append(c.creates, spec.Name)

	if err, ok := c.failures[spec.Name]; ok {
		return err
	}

	colls := c.databases[c.database]
	if _, exists := colls[spec.Name]; exists {
		return fmt.Errorf("create %s.%s: %w", c.database, spec.Name, domain.ErrCollectionExists)
	}
	if colls == nil {
		colls = make(map[string]*memoryCollection)
		c.databases[c.database] = colls
	}

	collation := spec.Collation
	colls[spec.Name] = &memoryCollection{collation: &collation}
	return nil
}

func (c *Catalog) ListCollections(ctx context.Context) ([]domain.CollectionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.database == "" {
		return nil, domain.ErrNoDatabase
	}

	infos := make([]domain.CollectionInfo, 0, len(c.databases[c.database]))
	for name, coll := range c.databases[c.database] {
		info := domain.CollectionInfo{Name: name, Type: "collection"}
		if coll.collation != nil {
			collation := *coll.collation
			info.Collation = &collation
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Seed places an existing collection into database without recording a create call.
// A nil collation models a collection created with server defaults.
func (c *Catalog) Seed(database, name string, collation *domain.Collation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	colls := c.databases[database]
	if colls == nil {
		colls = make(map[string]*memoryCollection)
		c.databases[database] = colls
	}
	var stored *domain.Collation
	if collation != nil {
		copied := *collation
		stored = &copied
	}
	colls[name] = &memoryCollection{collation: stored}
}

// FailOn makes every create of name return err.
func (c *Catalog) FailOn(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[name] = err
}

// Creates returns the collection names passed to CreateCollection, in call order.
func (c *Catalog) Creates() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.creates...)
}
