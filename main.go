package main

import "github.com/gregriff/rilmas/cmd"

func main() {
	cmd.Execute()
}
