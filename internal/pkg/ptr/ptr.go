// Package ptr provides pointer-helper functions for optional tool
// annotation fields.
package ptr

// Bool returns a pointer to the given bool value.
func Bool(b bool) *bool { return &b }
