package main

import "github.com/pfrederiksen/sb-box-scores/internal/cli"

func main() {
	cli.Execute()
}
