package main

import "github.com/KaramelBytes/colprof-cli/cmd"

func main() {
	cmd.Execute()
}
