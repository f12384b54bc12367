package main

import (
	"os"

	"github.com/linyows/tagver"
)

func main() {
	os.Exit(tagver.RunCLI(os.Stdout, os.Stderr, os.Args[1:]))
}
