package main

import (
	"encoding/json"
	"fmt"
	"io"
)

func printJson(handle io.Writer, message any) error {
	b, err := json.MarshalIndent(message, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(handle, "%s\n", b)
	return err
}

// nonNil makes empty results print as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
