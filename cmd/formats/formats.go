// Package formats implements the formats command, which lists the
// available output formats.
package formats

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gvmreport/gvmreport/internal/render"
	"github.com/gvmreport/gvmreport/pkg/logger"
)

// Run executes the formats command.
func Run(args []string) error {
	fs := flag.NewFlagSet("formats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: gvmreport formats

List the available report output formats.`)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FORMAT\tDESCRIPTION")
	for _, name := range render.ListRenderers() {
		r, err := render.GetRenderer(name, logger.GetGlobalLogger())
		if err != nil {
			return fmt.Errorf("loading format %s: %w", name, err)
		}
		fmt.Fprintf(w, "%s\t%s\n", r.Name(), r.Description())
	}
	return w.Flush()
}
