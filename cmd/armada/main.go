package main

import "github.com/MrSnakeDoc/armada/internal/cli"

func main() {
	cli.Execute()
}
