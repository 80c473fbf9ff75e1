package main

import "zmctl/cmd"

func main() {
	cmd.Execute()
}
