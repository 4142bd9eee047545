package main

import "github.com/pfrederiksen/pitcher-luck/internal/cli"

func main() {
	cli.Execute()
}
