// Package cfgerr defines the error taxonomy of spec.md §7: a closed set
// of kinds a caller can recover with github.com/pkg/errors.Cause and a
// type assertion (the pkg/errors version this module uses has no Unwrap
// method, so the standard library's errors.As does not see through its
// wrappers), each wrapped with
// github.com/pkg/errors.WithStack at its construction site so that a
// top-level "%+v" format (as used by cmd/cfgtranslate, matching
// cmd/dump_intervals/main.go in the teacher repo) prints a stack trace
// pointing at the failing lowering step.
package cfgerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is implemented by every kind in this package, letting callers
// log a kind name without an exhaustive type switch.
type Error interface {
	error
	Kind() string
}

// NotAMethodError reports that the Driver's root node is not a Function.
type NotAMethodError struct{}

func (NotAMethodError) Error() string { return "root AST node is not a function" }
func (NotAMethodError) Kind() string  { return "NotAMethod" }

// NotAMethod returns a stack-annotated NotAMethodError.
func NotAMethod() error { return errors.WithStack(NotAMethodError{}) }

// TopLevelAnonMethodError reports that a top-level Function lacks a
// name.
type TopLevelAnonMethodError struct{}

func (TopLevelAnonMethodError) Error() string { return "top-level function has no name" }
func (TopLevelAnonMethodError) Kind() string  { return "TopLevelAnonMethod" }

// TopLevelAnonMethod returns a stack-annotated TopLevelAnonMethodError.
func TopLevelAnonMethod() error { return errors.WithStack(TopLevelAnonMethodError{}) }

// EmptySomeLabelError reports a label attribute that is present but
// empty. No lowering step returns it: the ast package has no way to tell
// an empty label from an absent one, and an empty label text reads as
// unlabeled.
type EmptySomeLabelError struct{}

func (EmptySomeLabelError) Error() string { return "label attribute present but empty" }
func (EmptySomeLabelError) Kind() string  { return "EmptySomeLabel" }

// EmptySomeLabel returns a stack-annotated EmptySomeLabelError.
func EmptySomeLabel() error { return errors.WithStack(EmptySomeLabelError{}) }

// TriedToCreateDoForLoopError reports a Loop whose
// FirstIterationConditionCheck is false (a do/post-test loop) but which
// also carries an init or update clause; spec.md §4.5.2 only allows
// post-test checking for loops without init/update.
type TriedToCreateDoForLoopError struct{}

func (TriedToCreateDoForLoopError) Error() string {
	return "a post-test loop cannot have an init or update clause"
}
func (TriedToCreateDoForLoopError) Kind() string { return "TriedToCreateDoForLoop" }

// TriedToCreateDoForLoop returns a stack-annotated
// TriedToCreateDoForLoopError.
func TriedToCreateDoForLoop() error { return errors.WithStack(TriedToCreateDoForLoopError{}) }

// ReturnToLabelError reports a labeled Return, which has no defined
// target (spec.md §4.6).
type ReturnToLabelError struct{}

func (ReturnToLabelError) Error() string { return "return statement cannot carry a label" }
func (ReturnToLabelError) Kind() string  { return "ReturnToLabel" }

// ReturnToLabel returns a stack-annotated ReturnToLabelError.
func ReturnToLabel() error { return errors.WithStack(ReturnToLabelError{}) }

// NotSupportedError reports a construct that is recognized but
// rejected, with a human-readable reason (e.g. an empty Throw tag
// list).
type NotSupportedError struct{ Reason string }

func (e NotSupportedError) Error() string { return "not supported: " + e.Reason }
func (e NotSupportedError) Kind() string  { return "NotSupported" }

// NotSupportedf returns a stack-annotated NotSupportedError built from a
// format string.
func NotSupportedf(format string, args ...interface{}) error {
	return errors.WithStack(NotSupportedError{Reason: fmt.Sprintf(format, args...)})
}

// NotImplementedError reports a construct that is recognized but never
// handled (currently, only Yield).
type NotImplementedError struct{ Reason string }

func (e NotImplementedError) Error() string { return "not implemented: " + e.Reason }
func (e NotImplementedError) Kind() string  { return "NotImplemented" }

// NotImplemented returns a stack-annotated NotImplementedError.
func NotImplemented(reason string) error {
	return errors.WithStack(NotImplementedError{Reason: reason})
}

// MalformedAstError reports an AST the translator could not decode:
// a missing required field or an unrecognized tagged-union variant.
// Field names the accessor path that failed (e.g. "Loop.Condition");
// Reason is a short human-readable explanation. See SPEC_FULL.md §4.11.
type MalformedAstError struct {
	Field  string
	Reason string
}

func (e MalformedAstError) Error() string {
	return fmt.Sprintf("malformed ast at %s: %s", e.Field, e.Reason)
}
func (e MalformedAstError) Kind() string { return "MalformedAst" }

// MalformedAstf returns a stack-annotated MalformedAstError built from a
// format string.
func MalformedAstf(field, format string, args ...interface{}) error {
	return errors.WithStack(MalformedAstError{Field: field, Reason: fmt.Sprintf(format, args...)})
}
