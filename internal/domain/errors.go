package domain

import "errors"

var (
	ErrCollectionExists = errors.New("collection already exists")
	ErrNoDatabase       = errors.New("no database selected")
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidCollation = errors.New("invalid collation")
	ErrLayoutMismatch   = errors.New("collection layout mismatch")
)
