package main

import "github.com/scenecast/scenecast/cmd/scenecast/cmd"

func main() {
	cmd.Execute()
}
