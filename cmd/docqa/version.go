package main

import (
	"fmt"
	"io"

	"docqa/pkg/version"
)

// printVersion prints the version information
func printVersion(w io.Writer) {
	fmt.Fprint(w, version.Full(appName))
}
