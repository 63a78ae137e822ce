package main

import "github.com/Ratnaditya-J/GmailWithLlm/cmd"

var version = "0.1.0"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
