package main

import "github.com/velologic/cycling-season-manager-go/cmd"

func main() {
	cmd.Execute()
}
