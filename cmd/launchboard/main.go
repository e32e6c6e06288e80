package main

import "launchboard/cmd/launchboard/commands"

func main() {
	commands.Execute()
}
