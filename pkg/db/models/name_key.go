package models

import "strings"

// NameKey folds a shop name into its unique routing key.
func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
