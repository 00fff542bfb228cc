// Package app provides the application service layer.
//
// Provisioner orchestrates the use cases: select a database, create the layout's collections in order
// (halting on the first failure), plan a run, and verify an existing database. Depends on the
// domain.Catalog port, not on a concrete driver.
package app
