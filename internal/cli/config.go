package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/poly1603/ldesign-changelog/internal/config"
	clierrors "github.com/poly1603/ldesign-changelog/internal/errors"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage tool configuration",
	GroupID: GroupConfiguration,
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config to .changelog/config.yml",
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file locations and which exist",
	RunE:  runConfigPath,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List configuration keys with types and defaults",
	RunE:  runConfigKeys,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration after all sources",
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd, configPathCmd, configKeysCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ProjectConfigPath()
	if !configInitForce {
		if _, err := os.Stat(path); err == nil {
			return clierrors.NewArgumentError(
				fmt.Sprintf("config file already exists at %s", path),
				"Pass --force to overwrite it",
			)
		}
	}

	if err := os.MkdirAll(config.ProjectConfigDir(), 0o755); err != nil {
		return clierrors.FileNotWritable(config.ProjectConfigDir(), err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return clierrors.FileNotWritable(path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote default configuration to %s\n", path)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration sources, lowest priority first:")

	userPath, err := config.UserConfigPath()
	if err != nil {
		userPath = "(unavailable)"
	}
	printConfigSource(out, "user", userPath)
	printConfigSource(out, "project", config.ProjectConfigPath())
	printConfigSource(out, "legacy", config.LegacyProjectConfigPath())

	fmt.Fprintln(out, "Environment variables with the CHANGELOG_ prefix override all files.")
	return nil
}

func printConfigSource(out io.Writer, label, path string) {
	note := ""
	if _, err := os.Stat(path); err != nil {
		note = " (not found)"
	}
	fmt.Fprintf(out, "  %-8s %s%s\n", label+":", path, note)
}

func runConfigKeys(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, path := range config.SortedKeyPaths() {
		schema, err := config.GetKeySchema(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-24s %s (default %v)\n", schema.Path, schema.Type, schema.Default)
		fmt.Fprintf(out, "    %s\n", schema.Description)
		if len(schema.AllowedValues) > 0 {
			fmt.Fprintf(out, "    one of: %s\n", strings.Join(schema.AllowedValues, ", "))
		}
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	snap, err := config.Snapshot(config.LoadOptions{
		ProjectConfigPath: configFlag,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return configLoadError(err)
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return clierrors.NewRuntimeError(fmt.Sprintf("encoding configuration: %v", err))
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
