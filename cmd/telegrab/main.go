package main

import "github.com/telegrab/telegrab/internal/cli"

func main() {
	cli.Execute()
}
