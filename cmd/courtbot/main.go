package main

import "github.com/codeforbtv/courtbot-vt/internal/cli"

func main() {
	cli.Execute()
}
