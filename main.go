package main

import "retailkpi/cmd"

func main() {
	cmd.Execute()
}
