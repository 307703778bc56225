package main

import "roomadmin/commands"

func main() {
	commands.Execute()
}
