package coverage

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Print writes a per-type table of registrations followed by any problems.
func (r *Report) Print(w io.Writer) error {
	where := make(map[string]string, len(r.Registrations))
	for _, reg := range r.Registrations {
		if reg.Value != "" {
			if _, ok := where[reg.Value]; !ok {
				where[reg.Value] = fmt.Sprintf("%s:%d", reg.Pos.Filename, reg.Pos.Line)
			}
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tCONST\tRENDERER")
	for _, t := range r.Types {
		loc, ok := where[t.Value]
		if !ok {
			loc = "MISSING"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Value, t.Name, loc)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, o := range r.Orphans {
		fmt.Fprintf(w, "orphan: %s at %s\n", o.Ref, o.Pos)
	}
	for _, d := range r.Duplicates {
		fmt.Fprintf(w, "duplicate: %q at %s\n", d.Value, d.Pos)
	}
	return nil
}
