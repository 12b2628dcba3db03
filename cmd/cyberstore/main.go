package main

import "github.com/mcoot/cyberstore/internal/cli"

func main() {
	cli.Execute()
}
