package main

import "github.com/Taichi-iskw/contentrepo/cmd"

func main() {
	cmd.Execute()
}
