package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/The-Unpaid-Developers/core-service/internal/domain"
)

// Server error codes this package reacts to.
const (
	codeAuthenticationFailed = 18
	codeNamespaceExists      = 48
	codeUnauthorized         = 13
)

// Catalog implements domain.Catalog on a MongoDB deployment.
type Catalog struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewCatalog(client *mongo.Client) *Catalog {
	return &Catalog{client: client}
}

func (c *Catalog) Use(database string) error {
	if err := domain.ValidateDatabaseName(database); err != nil {
		return err
	}
	c.db = c.client.Database(database)
	return nil
}

func (c *Catalog) Database() string {
	if c.db == nil {
		return ""
	}
	return c.db.Name()
}

// CreateCollection issues create with the collation as its only option, so
// every other setting keeps the server default.
func (c *Catalog) CreateCollection(ctx context.Context, spec domain.CollectionSpec) error {
	if c.db == nil {
		return domain.ErrNoDatabase
	}
	if err := domain.ValidateCollectionName(c.db.Name(), spec.Name); err != nil {
		return err
	}
	if err := spec.Collation.Validate(); err != nil {
		return err
	}

	opts := options.CreateCollection().SetCollation(&options.Collation{
		Locale:   spec.Collation.Locale,
		Strength: spec.Collation.Strength,
	})

	err := c.db.CreateCollection(ctx, spec.Name, opts)
	switch {
	case err == nil:
		return nil
	case isNamespaceExists(err):
		return fmt.Errorf("create %s.%s: %w: %w", c.db.Name(), spec.Name, domain.ErrCollectionExists, err)
	default:
		return fmt.Errorf("create %s.%s: %w", c.db.Name(), spec.Name, err)
	}
}

type collectionOptions struct {
	Collation *struct {
		Locale   string `bson:"locale"`
		Strength int    `bson:"strength"`
	} `bson:"collation"`
}

func (c *Catalog) ListCollections(ctx context.Context) ([]domain.CollectionInfo, error) {
	if c.db == nil {
		return nil, domain.ErrNoDatabase
	}

	specs, err := c.db.ListCollectionSpecifications(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collections of %s: %w", c.db.Name(), err)
	}

	infos := make([]domain.CollectionInfo, 0, len(specs))
	for _, spec := range specs {
		info := domain.CollectionInfo{Name: spec.Name, Type: spec.Type}
		if len(spec.Options) > 0 {
			var opts collectionOptions
			if err := bson.Unmarshal(spec.Options, &opts); err != nil {
				return nil, fmt.Errorf("decode options of %s.%s: %w", c.db.Name(), spec.Name, err)
			}
			if opts.Collation != nil {
				info.Collation = &domain.Collation{Locale: opts.Collation.Locale, Strength: opts.Collation.Strength}
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Drop removes a collection; used by tests to reset state between runs.
func (c *Catalog) Drop(ctx context.Context, name string) error {
	if c.db == nil {
		return domain.ErrNoDatabase
	}
	return c.db.Collection(name).Drop(ctx)
}

func isNamespaceExists(err error) bool {
	var serverErr mongo.ServerError
	return errors.As(err, &serverErr) && serverErr.HasErrorCode(codeNamespaceExists)
}
