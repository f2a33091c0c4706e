package main

import "github.com/rustyeddy/performancepro/internal/cli"

func main() {
	cli.Execute()
}
