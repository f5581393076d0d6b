package main

import "github.com/KaramelBytes/review-profiler/cmd"

func main() {
	cmd.Execute()
}
