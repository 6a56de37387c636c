// Package main generates CLI reference documentation from the osc command tree.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra/doc"

	"github.com/offerscout/offerscout/cmd/osc/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	frontMatter := flag.Bool("front-matter", false,
		"prepend YAML front matter to each page (for static-site generators)")
	flag.Parse()

	if err := os.MkdirAll(*output, 0o750); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true

	var err error
	if *frontMatter {
		err = doc.GenMarkdownTreeCustom(root, *output, pageHeader, func(name string) string {
			return name
		})
	} else {
		err = doc.GenMarkdownTree(root, *output)
	}
	if err != nil {
		log.Fatalf("generating docs: %v", err)
	}

	fmt.Printf("CLI docs generated in %s/\n", *output)
}

// pageHeader derives a YAML front-matter block from the generated file name,
// e.g. "osc_search.md" becomes title "osc search".
func pageHeader(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), ".md")
	title := strings.ReplaceAll(base, "_", " ")
	return fmt.Sprintf("---\ntitle: %q\n---\n\n", title)
}
