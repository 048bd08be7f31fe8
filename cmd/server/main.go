package main

import "github.com/vytor/ezexam/internal/cli"

func main() {
	cli.Execute()
}
