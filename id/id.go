// Package id defines TypeID-based identifiers for worker-side entities.
//
// Job ids are opaque strings chosen by the producer and never pass through
// this package. Consumer instances get a K-sortable "csm_" id so log lines
// from several worker processes sharing one Redis can be told apart.
package id

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in a TypeID.
type Prefix string

const (
	// PrefixConsumer tags queue consumer instances.
	PrefixConsumer Prefix = "csm"
)

// ID is a TypeID rendered as "prefix_suffix". The zero value is Nil.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates an ID with the given prefix. It panics on an invalid
// prefix.
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}
	return ID{inner: tid, valid: true}
}

// NewConsumerID generates a new consumer instance ID.
func NewConsumerID() ID { return New(PrefixConsumer) }

// Parse parses "prefix_suffix".
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}
	return ID{inner: tid, valid: true}, nil
}

// ParseConsumerID parses s and checks the "csm" prefix.
func ParseConsumerID(s string) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}
	if parsed.Prefix() != PrefixConsumer {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", PrefixConsumer, parsed.Prefix())
	}
	return parsed, nil
}

// String returns "prefix_suffix", or "" for Nil.
func (i ID) String() string {
	if !i.valid {
		return ""
	}
	return i.inner.String()
}

// Prefix returns the prefix, or "" for Nil.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}
	return Prefix(i.inner.Prefix())
}

// IsNil reports whether i is the zero value.
func (i ID) IsNil() bool { return !i.valid }
