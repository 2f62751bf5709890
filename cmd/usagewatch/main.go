package main

import "github.com/usagewatch/usagewatch/internal/cli"

func main() {
	cli.Execute()
}
