package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reoring/gdlevel/internal/config"
	"github.com/reoring/gdlevel/internal/log"
	"github.com/reoring/gdlevel/level"
	"github.com/reoring/gdlevel/save"
)

// cli is the state shared by the subcommands of one invocation.
type cli struct {
	v        *viper.Viper
	cfgFile  string
	cfg      config.Config
	closeLog func()
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.NewViper()}
	root := &cobra.Command{
		Use:   "gdlevel",
		Short: "Inspect and round-trip editor levels of a local levels save",
		Long: `gdlevel decodes the local levels save (CCLocalLevels.dat), lists its levels
and dumps their objects with typed, named attributes.

Settings come from --config (YAML), GDLEVEL_* environment variables and flags,
in increasing priority.`,
		SilenceUsage:       true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.cfgFile, "config", "c", "", "config file (YAML)")
	pf.StringP("save", "s", "", "path to the levels save (.dat)")
	pf.String("log-file", "", "write logs to this file")
	pf.String("log-level", "", "minimum log level: debug, info, warn or error")
	pf.StringP("format", "f", "", "output format: json, yaml or spew")
	_ = c.v.BindPFlag("save.path", pf.Lookup("save"))
	_ = c.v.BindPFlag("log.file", pf.Lookup("log-file"))
	_ = c.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = c.v.BindPFlag("dump.format", pf.Lookup("format"))

	root.AddCommand(
		c.newLevelsCmd(),
		c.newDumpCmd(),
		c.newObjectCmd(),
		c.newRoundtripCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
		c.v.SetConfigType("yaml")
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	cfg, err := config.FromViper(c.v)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if cfg.Log.File != "" {
		closeLog, err := log.Init(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		c.closeLog = closeLog
		lvl, _ := log.ParseLevel(cfg.Log.Level)
		log.SetMinLevel(lvl)
	}
	log.Debug(log.CatCLI, "command started", "command", cmd.CommandPath())
	return nil
}

func (c *cli) teardown(*cobra.Command, []string) error {
	if c.closeLog != nil {
		log.SetOutput(nil)
		c.closeLog()
		c.closeLog = nil
	}
	return nil
}

func (c *cli) loadSave(ctx context.Context) (*save.Save, error) {
	path := c.cfg.Save.Path
	if path == "" {
		return nil, fmt.Errorf("no save file: pass --save or set save.path")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := save.LoadDAT(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return s, nil
}

// openLevel loads the save and opens the level named name.
func (c *cli) openLevel(ctx context.Context, name string, revision int) (*level.Level, error) {
	s, err := c.loadSave(ctx)
	if err != nil {
		return nil, err
	}
	info, ok := s.Lookup(name, revision)
	if !ok {
		return nil, fmt.Errorf("%w: %q", save.ErrLevelNotFound, name)
	}
	return level.Open(ctx, info)
}
