package ptr

// Ref returns a pointer to the value passed as argument. Handy for literals
// in struct fields that model nullable columns.
func Ref[T any](v T) *T {
	return &v
}
