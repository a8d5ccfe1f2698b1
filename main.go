package main

import (
	"TimelineViewer/pkg/commands"
)

func main() {
	commands.Execute()
}
