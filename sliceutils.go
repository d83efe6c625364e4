package main

func mapSlice[T, U any](slice []T, transform func(T) U) []U {
	result := make([]U, 0, len(slice))
	for _, item := range slice {
		result = append(result, transform(item))
	}
	return result
}

func filterSlice[T any](slice []T, keep func(T) bool) []T {
	var result []T
	for _, item := range slice {
		if keep(item) {
			result = append(result, item)
		}
	}
	return result
}
