// Command veilctl inspects and validates virtual GPU profiles.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/veilgpu/veil/profile"
	"github.com/veilgpu/veil/render"
)

func main() {
	var (
		list        = flag.Bool("list", false, "list the built-in profiles")
		emit        = flag.String("emit", "", "print the named built-in profile as YAML")
		validate    = flag.String("validate", "", "validate a profile YAML file")
		fingerprint = flag.String("fingerprint", "", "print the canvas fingerprint digest for the named profile")
		width       = flag.Int("width", 256, "fingerprint canvas width")
		height      = flag.Int("height", 128, "fingerprint canvas height")
	)
	flag.Parse()

	registry := profile.NewRegistry()
	if err := registry.RegisterBuiltin(); err != nil {
		log.Fatalf("builtin profiles: %v", err)
	}

	switch {
	case *list:
		for _, id := range registry.List() {
			p, err := registry.Get(id)
			if err != nil {
				log.Fatalf("%s: %v", id, err)
			}
			fmt.Printf("%-20s %s (%s, %d MB)\n", p.ID, p.Name, p.Platform, p.MemoryMB)
		}

	case *emit != "":
		p, err := registry.Get(*emit)
		if err != nil {
			log.Fatalf("emit: %v", err)
		}
		data, err := profile.Encode(p)
		if err != nil {
			log.Fatalf("emit: %v", err)
		}
		os.Stdout.Write(data)

	case *validate != "":
		data, err := os.ReadFile(*validate)
		if err != nil {
			log.Fatalf("validate: %v", err)
		}
		p, err := profile.Decode(data)
		if err != nil {
			log.Fatalf("validate: %v", err)
		}
		if ok, reasons := p.Validate(); !ok {
			for _, r := range reasons {
				fmt.Fprintf(os.Stderr, "  %s\n", r)
			}
			log.Fatalf("validate: %s failed %d rule(s)", p.ID, len(reasons))
		}
		fmt.Printf("%s: ok\n", p.ID)

	case *fingerprint != "":
		p, err := registry.Get(*fingerprint)
		if err != nil {
			log.Fatalf("fingerprint: %v", err)
		}
		n := render.NewNormalizer(render.DefaultConfig())
		fmt.Println(n.GenerateCanvasFingerprint(p, *width, *height))

	default:
		flag.Usage()
		os.Exit(2)
	}
}
