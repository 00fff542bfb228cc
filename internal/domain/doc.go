// Package domain defines the core domain types and interfaces.
//
// This package contains concept-oriented files (collation.go, collection.go, layout.go, errors.go)
// with shared types and the catalog port. No driver code - just contracts.
// Adapters implement Catalog; the app layer consumes it.
package domain
