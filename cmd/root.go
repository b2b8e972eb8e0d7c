// Package cmd implements the armature command line.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chazu/armature/pkg/app"
	"github.com/chazu/armature/pkg/config"
	"github.com/chazu/armature/pkg/engine"
	"github.com/chazu/armature/pkg/kernel/sdfx"
	"github.com/chazu/armature/pkg/logger"
)

var version = "dev"

// rootOptions is the state shared by every subcommand of one invocation.
type rootOptions struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
	log     *logrus.Logger
}

// NewRootCmd builds the armature command tree.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:     "armature",
		Short:   "Resolve link positions of a rigid-link manipulator",
		Long:    `armature evaluates an arm description, resolves where each link ends up, and checks the arm for collisions and orientation limits.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.initConfig(cmd)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&o.cfgFile, "config", "c", "",
		"config file (default: ./.armature/config.yaml or ~/.config/armature/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored log output")

	_ = o.v.BindPFlag("log.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = o.v.BindPFlag("log.disable_color", rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.AddCommand(
		newEvalCmd(o),
		newStructureCmd(o),
		newMeshCmd(o),
		newValidateCmd(o),
		newWatchCmd(o),
		newInitConfigCmd(o),
	)
	return rootCmd
}

func (o *rootOptions) initConfig(cmd *cobra.Command) error {
	config.SetDefaults(o.v)
	config.BindEnv(o.v)

	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
	} else {
		// Config lookup order:
		// 1. .armature/config.yaml (current directory)
		// 2. ~/.config/armature/config.yaml (user config)
		if _, err := os.Stat(".armature/config.yaml"); err == nil {
			o.v.SetConfigFile(".armature/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			o.v.AddConfigPath(filepath.Join(home, ".config", "armature"))
			o.v.SetConfigName("config")
			o.v.SetConfigType("yaml")
		}
	}

	if err := o.v.ReadInConfig(); err != nil {
		// A missing file in the search path means defaults; an explicit
		// --config that cannot be read is an error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || o.cfgFile != "" {
			return errors.Wrap(err, "reading config")
		}
	}

	cfg, err := config.Load(o.v)
	if err != nil {
		return err
	}
	o.cfg = cfg

	log, err := logger.New(cmd.ErrOrStderr(), logger.LogOptions{
		Verbose:      cfg.Log.Verbose,
		DisableColor: cfg.Log.DisableColor,
		LogToFile:    cfg.Log.File != "",
		OutputPath:   cfg.Log.File,
	})
	if err != nil {
		return err
	}
	o.log = log
	if used := o.v.ConfigFileUsed(); used != "" {
		log.Debugf("using config %s", used)
	}
	return nil
}

// newApp builds an App from the loaded configuration.
func (o *rootOptions) newApp(meshes bool) *app.App {
	eng := engine.NewEngine(
		engine.WithTimeout(o.cfg.Engine.Timeout),
		engine.WithLimits(o.cfg.Arm),
		engine.WithLogger(o.log),
	)
	return app.New(
		app.WithEngine(eng),
		app.WithKernel(sdfx.NewWithCells(o.cfg.Mesh.Cells)),
		app.WithMeshOptions(o.cfg.Mesh.Options()),
		app.WithMeshes(meshes),
		app.WithLogger(o.log),
	)
}

// evaluateFile reads path and evaluates it. Warnings are logged; evaluation
// errors are logged and returned as one error.
func (o *rootOptions) evaluateFile(path string, meshes bool) (app.Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return app.Result{}, errors.Wrapf(err, "reading %s", path)
	}

	result := o.newApp(meshes).Evaluate(string(source))
	for _, w := range result.Warnings {
		o.log.WithField("line", w.Line).Warn(w.Message)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			o.log.WithField("line", e.Line).Error(e.Message)
		}
		return result, errors.Errorf("%s: %d error(s)", path, len(result.Errors))
	}
	return result, nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
}
