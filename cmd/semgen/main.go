// Package main is the entry point for the semgen CLI.
package main

import "github.com/latentlab/semgen/internal/cli"

func main() {
	cli.Execute()
}
