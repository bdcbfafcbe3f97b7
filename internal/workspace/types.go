// Package workspace holds the workspace-details core: the event normalizer,
// the command executor and the store port they act through.
package workspace

import (
	"context"
	"errors"
)

// Known provisioning statuses. The store treats status as opaque text, so
// any other value is passed through untouched.
const (
	StatusRequested = "Requested"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
)

// Field names a store attribute of a workspace record.
type Field string

const (
	FieldUsername Field = "Username"
	FieldEmail    Field = "Email"
	FieldStatus   Field = "WS_Status"
)

// ReadFields is the projection requested by a Read command.
var ReadFields = []Field{FieldUsername, FieldEmail, FieldStatus}

// Key is the composite primary key of a workspace record.
type Key struct {
	Username string
	Email    string
}

// Complete reports whether both key components are present.
func (k Key) Complete() bool { return k.Username != "" && k.Email != "" }

// Record is the subset of a stored workspace record the core reads.
type Record struct {
	Username string `json:"username" dynamodbav:"Username"`
	Email    string `json:"email" dynamodbav:"Email"`
	Status   string `json:"status" dynamodbav:"WS_Status"`
}

// Assignment sets a single field to a value during an update.
type Assignment struct {
	Field Field
	Value string
}

// Store is the key-value store holding workspace records.
//
// Get returns found=false with a nil error when no record exists for key.
// Update applies assign (nil means touch without changing any field) to an
// existing record and returns ErrNotFound when the record is absent.
type Store interface {
	Get(ctx context.Context, key Key, fields []Field) (Record, bool, error)
	Update(ctx context.Context, key Key, assign *Assignment) error
}

var (
	// ErrNotFound is returned by stores when an update targets an absent record.
	ErrNotFound = errors.New("workspace: record not found")
	// ErrIncompleteKey marks a command whose username or email is missing.
	ErrIncompleteKey = errors.New("workspace: username and email are required")
)

// Kind classifies a normalized command.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindRead
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	default:
		return "unrecognized"
	}
}

// Source names the calling convention a command was extracted from.
type Source string

const (
	SourceNone            Source = ""
	SourceEnvelope        Source = "envelope"
	SourceDirect          Source = "direct"
	SourceFailureCallback Source = "failure-callback"
)

// Command is the normalized form of one invocation.
type Command struct {
	Kind     Kind
	Username string
	Email    string
	// Status is only meaningful for KindWrite; nil leaves the stored status alone.
	Status *string
}

// Key returns the record key targeted by the command.
func (c Command) Key() Key { return Key{Username: c.Username, Email: c.Email} }

// Outcome is the result classification of an executed command.
type Outcome int

const (
	OutcomeNoAction Outcome = iota
	OutcomeFound
	OutcomeNotFound
	OutcomeUpdated
	OutcomeUpdateFailed
	OutcomeStoreError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeUpdated:
		return "updated"
	case OutcomeUpdateFailed:
		return "update_failed"
	case OutcomeStoreError:
		return "store_error"
	default:
		return "no_action"
	}
}

// Result is what the executor hands to the transport for rendering.
type Result struct {
	Outcome Outcome
	Record  Record // set for OutcomeFound
	Err     error  // set for OutcomeStoreError and OutcomeUpdateFailed
}
