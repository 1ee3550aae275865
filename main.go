package main

import "github.com/pyaillet/doggy/internal/cli"

func main() {
	cli.Execute()
}
