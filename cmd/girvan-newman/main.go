// Command girvan-newman detects communities in graph fixtures with the
// Girvan-Newman edge-betweenness algorithm.
package main

import (
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
