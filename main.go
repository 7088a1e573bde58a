package main

import "github.com/alsdiag/alsdiag/cmd"

func main() {
	cmd.Execute()
}
