package main

import (
	"os"
)

func main() {
	root := newRootCmd(&cli{out: os.Stdout, in: os.Stdin})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
