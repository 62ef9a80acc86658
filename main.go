// Package main is the entry point for the ambigen CLI.
package main

import "ambigen.dev/pkg/ambigen/cmd"

func main() {
	cmd.Execute()
}
