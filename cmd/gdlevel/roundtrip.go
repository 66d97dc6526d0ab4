package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/reoring/gdlevel/internal/container"
	"github.com/reoring/gdlevel/internal/log"
	"github.com/reoring/gdlevel/level"
	"github.com/reoring/gdlevel/save"
)

// errRoundtrip marks a level whose record changes when decoded and re-encoded.
var errRoundtrip = errors.New("record changed on round trip")

func (c *cli) newRoundtripCmd() *cobra.Command {
	var (
		revision int
		all      bool
		strict   bool
	)
	cmd := &cobra.Command{
		Use:   "roundtrip [NAME]",
		Short: "Decode and re-encode a level record and diff the result",
		Long: `Decode the level record of NAME (or of every level with --all), encode it
again and print a per-object diff of the two records. Differences are expected
where the encoder normalizes (three-decimal floats, default keys); --strict
turns any difference into a failure.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if all == (len(args) == 1) {
				return errors.New("pass either NAME or --all")
			}
			s, err := c.loadSave(ctx)
			if err != nil {
				return err
			}
			var infos []*save.LevelInfo
			if all {
				infos = s.Levels
			} else {
				info, ok := s.Lookup(args[0], revision)
				if !ok {
					return fmt.Errorf("%w: %q", save.ErrLevelNotFound, args[0])
				}
				infos = []*save.LevelInfo{info}
			}

			out := cmd.OutOrStdout()
			changed := 0
			for _, info := range infos {
				if info.Data == "" {
					continue
				}
				before, err := container.Decompress([]byte(info.Data))
				if err != nil {
					return fmt.Errorf("%s: %w", info.Name, err)
				}
				l, err := level.ParseRecord(ctx, string(before))
				if err != nil {
					return fmt.Errorf("%s: %w", info.Name, err)
				}
				after, err := l.EncodeRecord(ctx)
				if err != nil {
					return fmt.Errorf("%s: %w", info.Name, err)
				}
				ins, del, text := diffRecords(string(before), after)
				fmt.Fprintf(out, "%s (rev %d): %d objects, +%d -%d segments\n",
					info.Name, info.Revision, len(l.Module.Objects), ins, del)
				if ins+del > 0 {
					changed++
					fmt.Fprint(out, text)
				}
				log.Info(log.CatCLI, "round trip", "level", info.Name, "inserted", ins, "deleted", del)
			}
			if strict && changed > 0 {
				return fmt.Errorf("%w: %d of %d levels", errRoundtrip, changed, len(infos))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&revision, "revision", "r", save.AnyRevision, "level revision (default: newest)")
	cmd.Flags().BoolVar(&all, "all", false, "round-trip every level of the save")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any record changes")
	return cmd
}

// diffRecords diffs two records one ';' segment per line and returns the
// number of inserted and deleted segments plus the changed lines.
func diffRecords(before, after string) (ins, del int, text string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(segmentLines(before), segmentLines(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	var sb strings.Builder
	for _, d := range diffs {
		var mark string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			mark = "+ "
		case diffmatchpatch.DiffDelete:
			mark = "- "
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			if mark == "+ " {
				ins++
			} else {
				del++
			}
			sb.WriteString(mark + line)
		}
	}
	return ins, del, sb.String()
}

func segmentLines(rec string) string {
	return strings.ReplaceAll(rec, ";", "\n")
}
