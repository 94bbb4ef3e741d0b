package main

import "github.com/pders01/git-provenance/cmd"

func main() {
	cmd.Execute()
}
