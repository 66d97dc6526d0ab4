package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *cli) newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the levels of the save, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.loadSave(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tREVISION\tOBJECTS\tDESCRIPTION")
			for _, l := range s.Levels {
				objects := "-"
				if n, ok := l.Unused["objects"]; ok {
					objects = fmt.Sprint(n)
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", l.Name, l.Revision, objects, l.Description)
			}
			return tw.Flush()
		},
	}
}
