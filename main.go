/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/hotsuka/todo-app/cmd"

func main() {
	cmd.Execute()
}
