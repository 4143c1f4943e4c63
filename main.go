package main

import "github.com/dyike/FinSight/internal/cli"

func main() {
	cli.Run()
}
