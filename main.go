package main

import "metawash/cmd"

func main() {
	cmd.Execute()
}
