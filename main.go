package main

import "github.com/OwaisShaikh-8/Instant-Meal/cmd"

func main() {
	cmd.Execute()
}
