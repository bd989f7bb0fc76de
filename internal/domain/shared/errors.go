package shared

import (
	"fmt"
	"sort"
	"strings"
)

// ErrForbidden indicates the caller lacks the role or ownership an operation requires
type ErrForbidden struct {
	Reason string
}

func (e ErrForbidden) Error() string {
	if e.Reason == "" {
		return "forbidden"
	}
	return "forbidden: " + e.Reason
}

// Is matches any ErrForbidden regardless of reason
func (e ErrForbidden) Is(target error) bool {
	_, ok := target.(ErrForbidden)
	return ok
}

// ErrNotFound indicates a referenced entity is absent
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Is matches on Entity and ID when the target sets them; a zero target matches any ErrNotFound
func (e ErrNotFound) Is(target error) bool {
	t, ok := target.(ErrNotFound)
	if !ok {
		return false
	}
	if t.Entity != "" && t.Entity != e.Entity {
		return false
	}
	return t.ID == "" || t.ID == e.ID
}

// ErrInsufficientBalance indicates an account cannot cover a debit
type ErrInsufficientBalance struct {
	OwnerID  string
	Balance  int64
	Required int64
}

func (e ErrInsufficientBalance) Error() string {
	return fmt.Sprintf("insufficient balance for owner %s: have %d, need %d", e.OwnerID, e.Balance, e.Required)
}

func (e ErrInsufficientBalance) Is(target error) bool {
	_, ok := target.(ErrInsufficientBalance)
	return ok
}

// ErrInvalidState indicates a state machine precondition failed
type ErrInvalidState struct {
	Entity  string
	Current string
	Action  string
}

func (e ErrInvalidState) Error() string {
	return fmt.Sprintf("cannot %s %s in state %s", e.Action, e.Entity, e.Current)
}

func (e ErrInvalidState) Is(target error) bool {
	_, ok := target.(ErrInvalidState)
	return ok
}

// ErrAlreadyProcessed indicates an idempotency guard tripped: the transition already happened
type ErrAlreadyProcessed struct {
	Entity string
	ID     string
}

func (e ErrAlreadyProcessed) Error() string {
	return fmt.Sprintf("%s already processed: %s", e.Entity, e.ID)
}

func (e ErrAlreadyProcessed) Is(target error) bool {
	_, ok := target.(ErrAlreadyProcessed)
	return ok
}

// ErrValidation collects field-level input problems found at the boundary
type ErrValidation struct {
	Fields map[string]string
}

// NewValidationError builds an ErrValidation for a single field
func NewValidationError(field, message string) ErrValidation {
	return ErrValidation{Fields: map[string]string{field: message}}
}

func (e ErrValidation) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e ErrValidation) Is(target error) bool {
	_, ok := target.(ErrValidation)
	return ok
}

// ErrTransientFailure wraps storage contention or timeouts. It is the only kind safe to retry blindly.
type ErrTransientFailure struct {
	Err error
}

func (e ErrTransientFailure) Error() string {
	if e.Err == nil {
		return "transient failure"
	}
	return "transient failure: " + e.Err.Error()
}

func (e ErrTransientFailure) Unwrap() error {
	return e.Err
}

func (e ErrTransientFailure) Is(target error) bool {
	_, ok := target.(ErrTransientFailure)
	return ok
}

// ErrSelfConversation indicates a user tried to open a conversation on their own listing
type ErrSelfConversation struct {
	PropertyID string
}

func (e ErrSelfConversation) Error() string {
	return "cannot start a conversation on your own listing: " + e.PropertyID
}

func (e ErrSelfConversation) Is(target error) bool {
	_, ok := target.(ErrSelfConversation)
	return ok
}

// Validator accumulates field errors while checking an input type
type Validator struct {
	fields map[string]string
}

// Check records message for field when ok is false. The first message per field wins.
func (v *Validator) Check(ok bool, field, message string) {
	if ok {
		return
	}
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = message
	}
}

// Err returns an ErrValidation when any check failed, nil otherwise
func (v *Validator) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return ErrValidation{Fields: v.fields}
}
