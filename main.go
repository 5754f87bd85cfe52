package main

import "github.com/laevatin/pipesh/cmd"

func main() {
	cmd.Execute()
}
