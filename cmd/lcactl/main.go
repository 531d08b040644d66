package main

import "github.com/metalcycle/lcastudio/internal/cli"

func main() {
	cli.Execute()
}
