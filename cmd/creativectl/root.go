package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"creativerenamer/internal/config"
	"creativerenamer/server/services"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{configFlag: configFlag, jsonFlag: jsonFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var paths []string
		if path := strings.TrimSpace(*c.configFlag); path != "" {
			paths = append(paths, path)
		}
		c.config, c.configErr = config.LoadConfig(paths...)
	})
	return c.config, c.configErr
}

func (c *commandContext) service() (*services.RenamerService, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return services.NewRenamerService(cfg), nil
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var jsonFlag bool

	ctx := newCommandContext(&configFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "creativectl",
		Short:         "Rename creative archives by T-sheet names",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (.toml, .yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print results as JSON")

	rootCmd.AddCommand(newPreviewCommand(ctx))
	rootCmd.AddCommand(newRenameCommand(ctx))
	rootCmd.AddCommand(newLogCommand(ctx))
	rootCmd.AddCommand(newCompareCommand(ctx))
	rootCmd.AddCommand(newHTML5Command(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
