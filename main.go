package main

import "github.com/sander-remitly/coin-change/cmd"

func main() {
	cmd.Execute()
}
