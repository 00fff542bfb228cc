package domain

import (
	"context"
	"fmt"
	"strings"
)

const (
	maxDatabaseNameBytes = 63
	maxNamespaceBytes    = 255
)

// CollectionSpec describes a collection that must exist and how it compares strings.
type CollectionSpec struct {
	Name      string
	Collation Collation
}

// CollectionInfo is what a catalog reports for an existing collection.
// Collation is nil when the collection was created without one.
type CollectionInfo struct {
	Name      string
	Type      string
	Collation *Collation
}

// Catalog is the collection catalog of a database server.
// Use scopes every later call to one database.
type Catalog interface {
	Use(database string) error
	Database() string
	CreateCollection(ctx context.Context, spec CollectionSpec) error
	ListCollections(ctx context.Context) ([]CollectionInfo, error)
}

// ValidateDatabaseName applies the server's database naming rules.
func ValidateDatabaseName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: database name is empty", ErrInvalidName)
	}
	if len(name) > maxDatabaseNameBytes {
		return fmt.Errorf("%w: database name %q exceeds %d bytes", ErrInvalidName, name, maxDatabaseNameBytes)
	}
	if i := strings.IndexAny(name, "/\\. \"$\x00"); i >= 0 {
		return fmt.Errorf("%w: database name %q contains %q", ErrInvalidName, name, name[i])
	}
	return nil
}

// ValidateCollectionName applies the server's collection naming rules within database.
func ValidateCollectionName(database, name string) error {
	if name == "" {
		return fmt.Errorf("%w: collection name is empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, "$\x00") {
		return fmt.Errorf("%w: collection name %q contains a reserved character", ErrInvalidName, name)
	}
	if strings.HasPrefix(name, "system.") {
		return fmt.Errorf("%w: collection name %q uses the reserved system prefix", ErrInvalidName, name)
	}
	if len(database)+1+len(name) > maxNamespaceBytes {
		return fmt.Errorf("%w: namespace %s.%s exceeds %d bytes", ErrInvalidName, database, name, maxNamespaceBytes)
	}
	return nil
}
