package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	configFile := flag.String("c", "", "configuration JSON file (CLI mode)")
	isServer := flag.Bool("server", false, "run in HTTP/WebSocket service mode")
	port := flag.Int("p", 8080, "port to listen on (service mode only)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "  CLI mode:     jetgridgen -c config.json")
		fmt.Fprintln(os.Stderr, "  Service mode: jetgridgen --server [-p port]")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *isServer {
		runServer(*port)
		return
	}

	if *configFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := runCLI(*configFile); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
