package main

import (
	"fmt"

	"github.com/spf13/cobra"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/catalog"
	"github.com/reoring/gdlevel/gdobj"
	"github.com/reoring/gdlevel/level"
)

func errUnknownClass(name string) error {
	return fmt.Errorf("%w: %q", gdlevel.ErrUnknownClass, name)
}

func (c *cli) newObjectCmd() *cobra.Command {
	var encode bool
	cmd := &cobra.Command{
		Use:   "object RECORD...",
		Short: "Decode object records given on the command line",
		Long: `Decode one or more "k,v,k,v" object records. The records share one module,
so equal group or item ids decode to the same identity.

With --encode each record is decoded and written back instead, which shows how
the record is normalized.`,
		Example: `  gdlevel object 1,1268,2,15,3,45,51,7
  gdlevel object --encode 1,901,28,10,58,1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := level.NewModule().Context(cmd.Context())
			codec := gdobj.NewObjectCodec()
			objs := make([]*gdobj.Object, 0, len(args))
			for i, rec := range args {
				o, err := codec.Decode(ctx, rec)
				if err != nil {
					return fmt.Errorf("record %d: %w", i+1, err)
				}
				objs = append(objs, o)
			}
			if encode {
				for _, o := range objs {
					s, err := codec.Encode(ctx, o)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), s)
				}
				return nil
			}
			if c.cfg.Dump.Labels {
				for i, o := range objs {
					objs[i] = o.Relabel(catalog.Default().Label)
				}
			}
			return write(cmd.OutOrStdout(), c.cfg.Dump.Format, objs)
		},
	}
	cmd.Flags().BoolVar(&encode, "encode", false, "write the records back instead of dumping them")
	return cmd
}
