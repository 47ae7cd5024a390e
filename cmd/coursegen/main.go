package main

import "github.com/classasaurus/coursegen/internal/cli"

func main() {
	cli.Execute()
}
