package main

import "github.com/tradmangh/LinkedIn-PostScraper/cmd"

func main() {
	cmd.Execute()
}
