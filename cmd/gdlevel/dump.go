package main

import (
	"github.com/spf13/cobra"

	"github.com/reoring/gdlevel/catalog"
	"github.com/reoring/gdlevel/gdobj"
	"github.com/reoring/gdlevel/level"
	"github.com/reoring/gdlevel/save"
)

type levelDump struct {
	Name     string            `json:"name" yaml:"name"`
	Revision int               `json:"revision" yaml:"revision"`
	Settings map[string]string `json:"settings" yaml:"settings"`
	Objects  []*gdobj.Object   `json:"objects" yaml:"objects"`
}

func (c *cli) newDumpCmd() *cobra.Command {
	var (
		revision int
		class    string
		noLabels bool
	)
	cmd := &cobra.Command{
		Use:   "dump NAME",
		Short: "Dump the settings and objects of a level",
		Long: `Dump the settings and decoded objects of the level NAME.

Raw keys no schema claims are listed under "unused"; with labels on (the
default) they are named from the built-in property catalog, e.g. "57: groups".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := c.openLevel(ctx, args[0], revision)
			if err != nil {
				return err
			}
			d := dumpOf(l, c.cfg.Dump.Labels && !noLabels)
			if class != "" {
				want, ok := gdobj.ParseClass(class)
				if !ok {
					return errUnknownClass(class)
				}
				var kept []*gdobj.Object
				for _, o := range d.Objects {
					if o.Class().Is(want) {
						kept = append(kept, o)
					}
				}
				d.Objects = kept
			}
			return write(cmd.OutOrStdout(), c.cfg.Dump.Format, d)
		},
	}
	cmd.Flags().IntVarP(&revision, "revision", "r", save.AnyRevision, "level revision (default: newest)")
	cmd.Flags().StringVar(&class, "class", "", "only objects of this class or its subclasses")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "keep unused keys unlabelled")
	return cmd
}

func dumpOf(l *level.Level, labels bool) levelDump {
	d := levelDump{Settings: l.Settings.Map(), Objects: l.Module.Objects}
	if l.Info != nil {
		d.Name, d.Revision = l.Info.Name, l.Info.Revision
	}
	if labels {
		cat := catalog.Default()
		d.Objects = make([]*gdobj.Object, len(l.Module.Objects))
		for i, o := range l.Module.Objects {
			d.Objects[i] = o.Relabel(cat.Label)
		}
	}
	return d
}
