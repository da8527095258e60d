package main

import "yasb-schema/internal/cli"

func main() {
	cli.Execute()
}
