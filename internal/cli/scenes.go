package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/guidoenr/oscviz/internal/effects"
	"github.com/guidoenr/oscviz/internal/scene"
)

func newScenesCmd() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:     "scenes",
		Aliases: []string{"list-scenes"},
		Short:   "List the built-in scenes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !long {
				for _, name := range scene.Names() {
					fmt.Fprintln(out, name)
				}
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SCENE\tBACKGROUND\tFOREGROUND\tPALETTE\tCONTRAST\tPROTECT")
			for _, name := range scene.Names() {
				s, err := scene.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
					s.Name, orDash(string(s.Background)), orDash(string(s.Foreground)), orDash(string(s.Palette)),
					s.Constraints.MinContrastDelta, indexList(s.Constraints.Protect))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show effects and constraints")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func indexList(set effects.IndexSet) string {
	idx := set.Slice()
	if len(idx) == 0 {
		return "-"
	}
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}
