package main

import "likedposts/cmd"

func main() {
	cmd.Execute()
}
