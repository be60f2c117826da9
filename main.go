package main

import "github.com/KaiqueGovani/tetrion/cmd"

func main() {
	cmd.Execute()
}
