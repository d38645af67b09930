package main

import "github.com/KaramelBytes/timestudy-cli/cmd"

func main() {
	cmd.Execute()
}
