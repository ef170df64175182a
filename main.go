/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/sempr/cph-go/cmd"

func main() {
	cmd.Execute()
}
