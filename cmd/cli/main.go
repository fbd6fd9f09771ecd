package main

import "bookrating/cmd/cli/command"

func main() {
	command.Execute()
}
