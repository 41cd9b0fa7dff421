package main

import "github.com/laala-app/creator-dashboard/cmd"

func main() {
	cmd.Execute()
}
