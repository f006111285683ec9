package main

import "github.com/andrescamacho/slotworks-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
