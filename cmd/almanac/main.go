// Command almanac stores locale-keyed calendar data and answers era and
// week lookups against it.
package main

import "github.com/mesh-intelligence/almanac/internal/cli"

func main() {
	cli.Execute()
}
