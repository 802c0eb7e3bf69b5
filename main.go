package main

import "go-notefall/cmd"

func main() {
	cmd.Execute()
}
