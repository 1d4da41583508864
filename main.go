package main

import "github.com/parkandride/parkride/cmd"

func main() {
	cmd.Execute()
}
