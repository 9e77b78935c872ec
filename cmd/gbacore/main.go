// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/gbacore/emulator"
)

func main() {
	var compile string
	var steps int
	var listing bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble and run")
	flag.IntVar(&steps, "n", 1_000_000, "Maximum steps to run; 0 is unlimited")
	flag.BoolVar(&listing, "l", false, "Print the program listing, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	switch {
	case len(compile) != 0 && flag.NArg() == 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(compile) == 0 && flag.NArg() == 1:
		name := flag.Arg(0)
		inf, err := os.Open(name)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
		defer inf.Close()

		err = emu.LoadImage(inf)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
	default:
		log.Fatalf("%v: need one of -c program.s or image.gba, got: %v", os.Args[0], flag.Args())
	}

	if listing {
		for address, code := range emu.Program.Codes() {
			dbg := emu.Program.Debug(address)
			fmt.Printf("%08x: %08x %4d  %v\n", address, uint32(code), dbg.LineNo, code)
		}
		return
	}

	ran, err := emu.Run(steps)
	fmt.Print(emu.Cpu.String())
	fmt.Printf("steps: %v\n", ran)

	if err != nil {
		log.Fatalf("%v: %v", emu.Code(), err)
	}
}
