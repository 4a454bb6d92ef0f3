package services

// Optional tracks tri-state PATCH semantics without depending on the transport.
// Handlers map httputil.OptionalString into it.
//   - Present=false: field absent (don't change)
//   - Present=true, Value=nil: field is null (clear)
//   - Present=true, Value!=nil: set
type Optional[T any] struct {
	Present bool
	Value   *T
}

// Set returns a present, non-null Optional
func Set[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: &v}
}

// Null returns a present, null Optional
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true}
}
