package main

import (
	"log"

	"github.com/WenkChr/nbl-experimental/cmd"
)

func main() {
	err := cmd.Run()
	if err != nil {
		log.Fatal(err.Error())
	}
}
