package main

import "hub-dashboard/cmd"

func main() {
	cmd.Execute()
}
