package main

import "github.com/jjenkins/legreview/cmd"

func main() {
	cmd.Execute()
}
