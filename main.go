package main

import "github.com/nipunbatra/trim-convert/cmd"

func main() {
	cmd.Execute()
}
