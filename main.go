package main

import "github.com/slackard/slackard/cmd"

func main() {
	cmd.Execute()
}
