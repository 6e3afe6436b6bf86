/*
	Copyright 2025 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/iracelog-trackmap-go/cmd"

func main() {
	cmd.Execute()
}
