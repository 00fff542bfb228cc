// Package mongo implements the collection catalog on MongoDB using the official Go driver.
//
// Connect pings with bounded retries, Catalog maps NamespaceExists to domain.ErrCollectionExists
// and reads collection collations back from listCollections.
package mongo
