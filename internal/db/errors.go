package db

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrNotFound      = errors.New("prompt not found")
	ErrConflict      = errors.New("prompt already exists")
	ErrStorage       = errors.New("storage failure")
	ErrSerialization = errors.New("serialization failure")
	ErrIO            = errors.New("io failure")
)

// Error carries the kind of failure, the store operation and, when known, the prompt id.
type Error struct {
	Kind error
	Op   string
	ID   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.ID != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.ID, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func notFound(op, id string) error {
	return &Error{Kind: ErrNotFound, Op: op, ID: id}
}

func storageErr(op, id string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: ErrStorage, Op: op, ID: id, Err: err}
}

func serializationErr(op string, err error) error {
	return &Error{Kind: ErrSerialization, Op: op, Err: err}
}
