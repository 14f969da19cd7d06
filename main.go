package main

import "github.com/vaultis/vaultis/cmd"

func main() {
	cmd.Execute()
}
