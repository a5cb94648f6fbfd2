package main

import "github.com/mensio/brickstat/cmd/brickstat/cmd"

func main() {
	cmd.Execute()
}
