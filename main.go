package main

import "github.com/kamilpajak/triage/cmd/triage"

func main() {
	triage.Execute()
}
