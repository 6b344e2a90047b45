package main

import "agent-reconciler/cmd"

func main() {
	cmd.Execute()
}
