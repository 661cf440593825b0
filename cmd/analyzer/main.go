package main

import "github.com/mvp-joe/js-analyzer/internal/cli"

func main() {
	cli.Execute()
}
