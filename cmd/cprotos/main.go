package main

import "github.com/mvp-joe/cprotos/internal/cli"

func main() {
	cli.Execute()
}
