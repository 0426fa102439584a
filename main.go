package main

import "github.com/papapumpkin/trustgraph/cmd"

func main() {
	cmd.Execute()
}
