package inference

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAssetLoad       = errors.New("asset load failure")
	ErrUnknownCategory = errors.New("unknown category")
	ErrShapeMismatch   = errors.New("feature shape mismatch")
)

// AssetLoadError reports a model or encoder file that could not be read,
// decoded or validated.
type AssetLoadError struct {
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("failed to load asset %s: %v", e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() []error {
	return []error{ErrAssetLoad, e.Err}
}

// UnknownCategoryError is returned when a label is not part of the vocabulary
// an encoder was fitted on.
type UnknownCategoryError struct {
	Field string
	Label string
	Known []string
}

func (e *UnknownCategoryError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown category %q for field %q", e.Label, e.Field)
	}
	return fmt.Sprintf("unknown category %q for field %q (known: %s)",
		e.Label, e.Field, strings.Join(e.Known, ", "))
}

func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrUnknownCategory
}

// ShapeMismatchError is returned when a feature row does not match the
// columns the scorer was trained with.
type ShapeMismatchError struct {
	Expected []string
	Got      []string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("feature row has columns [%s], model expects [%s]",
		strings.Join(e.Got, ", "), strings.Join(e.Expected, ", "))
}

func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}
