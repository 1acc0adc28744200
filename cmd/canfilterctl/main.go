package main

import "github.com/koendv/cangaroo-hwfilter/cmd/canfilterctl/cmd"

func main() {
	cmd.Execute()
}
