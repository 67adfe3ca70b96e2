package main

import "github.com/kamusis/shellsage/cmd"

func main() {
	cmd.Execute()
}
