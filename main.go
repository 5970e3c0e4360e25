/*
Copyright © 2023 Glossopoeia
*/
package main

import "github.com/glossopoeia/saturate/cmd"

func main() {
	cmd.Execute()
}
