// Command neupdfo solves a built-in linear/quadratic test problem with
// COBYLA, the one concrete driver for the CLI/config/file-I/O
// collaborators spec.md §1 names out of scope for package cobyla itself.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zequipe/neupdfo/cobyla"
)

var log = logrus.New()

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "neupdfo PROBLEM.json",
		Short: "Solve a derivative-free constrained minimization problem with COBYLA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v, args[0])
		},
	}

	flags := cmd.Flags()
	flags.Float64("rhobeg", 0, "initial trust-region radius (0 = solver default)")
	flags.Float64("rhoend", 0, "final trust-region radius (0 = solver default)")
	flags.Float64("ctol", 0, "constraint-violation tolerance (0 = solver default)")
	flags.Int("maxfun", 0, "maximum number of objective evaluations (0 = solver default)")
	flags.Int("iprint", 0, "verbosity level, 0..3")
	flags.String("config", "", "optional config file (yaml/json/toml) with the same flag names")

	v.BindPFlags(flags)

	return cmd
}

func run(v *viper.Viper, problemPath string) error {
	if cfg := v.GetString("config"); cfg != "" {
		v.SetConfigFile(cfg)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	p, err := loadProblem(problemPath)
	if err != nil {
		return err
	}

	iprint := v.GetInt("iprint")
	opts := cobyla.Options{
		RhoBeg: v.GetFloat64("rhobeg"),
		RhoEnd: v.GetFloat64("rhoend"),
		CTol:   v.GetFloat64("ctol"),
		MaxFun: v.GetInt("maxfun"),
		IPrint: iprint,
	}

	if iprint > 0 {
		log.SetLevel(logrus.DebugLevel)
	}
	m := len(p.Constraints)
	log.WithFields(logrus.Fields{"n": p.N, "m": m, "rhobeg": opts.RhoBeg}).Info("starting COBYLA")

	res, err := cobyla.Solve(p.calcfc(), p.X0, m, opts)
	if err != nil {
		return fmt.Errorf("invalid problem: %w", err)
	}

	log.WithFields(logrus.Fields{
		"nf":   res.NF,
		"info": res.Info.String(),
		"f":    res.F,
		"cv":   res.CV,
	}).Info("finished")

	fmt.Printf("x = %v\nf = %g\ncv = %g\nnf = %d\ninfo = %s\n", res.X, res.F, res.CV, res.NF, res.Info)
	if !res.Info.Success() {
		os.Exit(1)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Error("neupdfo failed")
		os.Exit(1)
	}
}
