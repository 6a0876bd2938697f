package main

import "github.com/muxman/muxman/cmd"

func main() {
	cmd.Execute()
}
