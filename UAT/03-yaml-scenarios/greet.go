// Package greet is the target for the fixture-driven acceptance tests.
package greet

import "fmt"

// Greet greets name using options["greeting"] (default "Hello") and options["punctuation"].
func Greet(name string, options map[string]any) string {
	greeting, ok := options["greeting"].(string)
	if !ok {
		greeting = "Hello"
	}

	punctuation, _ := options["punctuation"].(string)

	return fmt.Sprintf("%s, %s%s", greeting, name, punctuation)
}
