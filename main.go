package main

import "staymypg/cmd"

func main() {
	cmd.Run()
}
