package main

import "github.com/neocortex/neocortex/cmd"

func main() {
	cmd.Execute()
}
