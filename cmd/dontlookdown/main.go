package main

import "github.com/yoanbernabeu/dontlookdown/cli"

func main() {
	cli.Execute()
}
