package main

import "github.com/user/promptlib/cmd"

func main() {
	cmd.Execute()
}
