package main

import (
	"fmt"
	"os"
	"path/filepath"

	"vexlayout/pkg/visualtest"
)

// Regenerates the reference images for visual regression tests.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Reference image generator for vexlayout")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/update-references <dir|file.xml>...")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  go run ./cmd/update-references pkg/visualtest/testdata")
		fmt.Println()
		fmt.Println("Or use the test-based approach:")
		fmt.Println("  UPDATE_REFS=1 go test ./pkg/visualtest -run TestReferenceImages")
		os.Exit(1)
	}

	count := 0
	for _, arg := range os.Args[1:] {
		docs, err := documents(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, doc := range docs {
			if err := visualtest.UpdateReference(doc); err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to generate %s: %v\n", visualtest.ReferencePath(doc), err)
				os.Exit(1)
			}
			count++
		}
	}
	fmt.Printf("%d reference image(s) generated\n", count)
}

func documents(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{arg}, nil
	}
	return filepath.Glob(filepath.Join(arg, "*.xml"))
}
