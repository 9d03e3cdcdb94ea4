package main

import "github.com/iksnae/glasschat/cmd"

func main() {
	cmd.Execute()
}
