package main

import "github.com/mvp-joe/enumgen/internal/cli"

func main() {
	cli.Execute()
}
