package main

import "github.com/jmehdipour/custdir/cmd"

func main() {
	cmd.Execute()
}
