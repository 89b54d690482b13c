// Command pack seals, verifies, and diffs content-addressed evidence
// packs. See root.go for the command tree and operator.Describe for the
// full operator document (pack --describe).
package main

import "os"

func main() {
	os.Exit(Execute())
}
