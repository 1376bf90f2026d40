package main

import "github.com/okian/glossa/internal/cli"

func main() {
	cli.Main()
}
