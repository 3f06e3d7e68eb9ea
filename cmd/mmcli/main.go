package main

import "github.com/mmind/mastermind-go/internal/cli"

func main() {
	cli.Execute()
}
