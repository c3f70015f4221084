package main

import "pydoxy/cmd/pydoxy/cmd"

func main() {
	cmd.Execute()
}
