package main

import "github.com/beismanmaps/server/cmd/beisman-maps/cmd"

func main() {
	cmd.Execute()
}
