package main

import "lexron-admin/cmd/console/commands"

func main() {
	commands.Execute()
}
