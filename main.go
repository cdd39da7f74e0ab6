package main

import "github.com/tempo-tracker/tempo/cmd"

func main() {
	cmd.Execute()
}
