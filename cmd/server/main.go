package main

import "github.com/mcoot/studentdesk/internal/cli"

func main() {
	cli.Execute()
}
