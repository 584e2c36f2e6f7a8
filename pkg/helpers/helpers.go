package helpers

// Ptr returns a pointer to the given value. Useful for the optional
// request fields that distinguish "absent" from "set to zero value".
func Ptr[T any](value T) *T {
	return &value
}

// SafeValue dereferences a pointer, returning the zero value for nil.
func SafeValue[T any](value *T) T {
	if value == nil {
		return *new(T)
	}
	return *value
}

// Batch splits items into consecutive chunks of at most batchSize.
func Batch[T any](items []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = 1
	}
	batches := make([][]T, 0)
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		batches = append(batches, items[i:end])
	}
	return batches
}
