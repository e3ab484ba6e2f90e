package main

import "github.com/LeJamon/goOracle/internal/cli"

func main() {
	cli.Execute()
}
