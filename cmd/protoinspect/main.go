// Command protoinspect prints a summary of a .proto schedule file: its
// header fields and the mean number of open valves per frame; with -v it
// also prints the open-valve count of every frame.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dvgjettinggrid/jetgridgen/pkg/schedule"
)

func main() {
	path := flag.String("f", "", "path to a .proto schedule file")
	verbose := flag.Bool("v", false, "print every frame instead of a summary")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: protoinspect -f schedule.proto")
		os.Exit(2)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer f.Close()

	header, state, err := schedule.Parse(f)
	if err != nil {
		log.Fatalf("parse: %v", err)
	}

	fmt.Printf("type:            %s\n", header.Type)
	fmt.Printf("date:            %s\n", header.Date)
	fmt.Printf("frames:          %d\n", header.NFrames)
	fmt.Printf("dt_frame:        %g\n", header.DtFrame)
	fmt.Printf("min_valve_dur:   %d\n", header.MinValveDuration)
	fmt.Printf("pcs_pixel_dist:  %d\n", header.PCSPixelDist)
	fmt.Printf("n_pixels:        %d\n", header.NPixels)

	total := 0
	for t := 0; t < state.T; t++ {
		open := 0
		for v := 0; v < len(state.Data)/state.T; v++ {
			if state.At(t, v) {
				open++
			}
		}
		total += open
		if *verbose {
			fmt.Printf("frame %5d: %3d valves open\n", t, open)
		}
	}
	if state.T > 0 {
		fmt.Printf("mean open valves per frame: %.2f\n", float64(total)/float64(state.T))
	}
}
