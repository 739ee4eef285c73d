package apperr

import (
	"errors"
	"fmt"
)

// Kind is the tag rendered in front of every failure reply.
type Kind string

const (
	// request pipeline
	ParameterNotFound Kind = "ParameterNotFoundError"
	InvalidParameter  Kind = "InvalidParameterError"
	NotFound          Kind = "NotFoundError"
	Mongo             Kind = "MongoError"

	// process bootstrap, fatal
	EnvVarEmpty  Kind = "EnvVarEmptyError"
	BotLogin     Kind = "BotLoginError"
	BotDeploy    Kind = "BotDeployError"
	MongoConnect Kind = "MongoConnectError"
)

// Error is a tagged failure carried from any pipeline stage to the reply.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is matches on kind so errors.Is(err, &Error{Kind: NotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func ParameterNotFoundf(format string, args ...any) *Error {
	return New(ParameterNotFound, format, args...)
}

func InvalidParameterf(format string, args ...any) *Error {
	return New(InvalidParameter, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, format, args...)
}

// Storage wraps an opaque storage failure.
func Storage(err error) *Error {
	return &Error{Kind: Mongo, Msg: err.Error()}
}

// From returns err as a tagged error. Anything untagged can only come from
// an I/O collaborator and is reported as a storage failure.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Storage(err)
}

// KindOf returns the tag of err, or "" for nil.
func KindOf(err error) Kind {
	if e := From(err); e != nil {
		return e.Kind
	}
	return ""
}
