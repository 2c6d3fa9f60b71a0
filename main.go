// Package main is the entry point for the arrowcheck CLI.
package main

import "arrowcheck.dev/pkg/arrowcheck/cmd"

func main() {
	cmd.Execute()
}
