// The main package for the brand-insights executable.
package main

import (
	"github.com/storesight/brand-insights/cmd"
)

func main() {
	cmd.Execute()
}
