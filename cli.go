// ABOUTME: Non-interactive dump mode
// ABOUTME: Prints the top level of the directory for connectivity checks

package main

import (
	"context"
	"fmt"

	"radiodial/opml"
)

// runDump fetches the directory root and prints its top-level entries.
// Useful for checking catalog connectivity without a terminal UI.
func runDump(loader *opml.Loader) int {
	ctx, cancel := context.WithTimeout(context.Background(), rootLoadTimeout)
	defer cancel()

	root := loader.Root(ctx)
	if len(root.Children) == 0 {
		fmt.Println("Directory is empty or unreachable")

		return 1
	}

	for _, child := range root.Children {
		switch n := child.(type) {
		case *opml.Folder:
			if n.Loaded {
				fmt.Printf("%s/ (%d entries)\n", n.Text, len(n.Children))
			} else {
				fmt.Printf("%s/ (link)\n", n.Text)
			}
		case *opml.Stream:
			fmt.Printf("%s (%s)\n", n.Text, n.URL)
		}
	}

	return 0
}
