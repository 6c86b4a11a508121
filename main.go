package main

import "github.com/Digital-Shane/reelshelf/internal/cmd"

func main() {
	cmd.Execute()
}
