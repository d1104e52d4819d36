package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyprsupreme/hyprsupreme/internal/history"
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Manage plugins",
	Long: `Manage plugins: discoverable script bundles with a plugin.toml (or
plugin.json) manifest declaring hooks, commands, and dependencies.`,
}

var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed plugins",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := pluginManager()
		if err != nil {
			return err
		}

		names := manager.Names()
		if len(names) == 0 {
			fmt.Println("No plugins installed.")
			return nil
		}
		for _, name := range names {
			p, err := manager.Get(name)
			if err != nil {
				continue
			}
			state := "disabled"
			if manager.Enabled(name) {
				state = "enabled"
			}
			fmt.Printf("%-24s %-10s %s\n", name, p.Manifest.Version, state)
		}
		return nil
	},
}

var pluginShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show a plugin's manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := pluginManager()
		if err != nil {
			return err
		}
		p, err := manager.Get(args[0])
		if err != nil {
			return err
		}

		m := p.Manifest
		fmt.Printf("Name:    %s\n", m.Name)
		if m.DisplayName != "" {
			fmt.Printf("Display: %s\n", m.DisplayName)
		}
		fmt.Printf("Version: %s\n", m.Version)
		if m.Author != "" {
			fmt.Printf("Author:  %s\n", m.Author)
		}
		fmt.Printf("Path:    %s\n", p.Dir)
		fmt.Printf("Enabled: %v\n", manager.Enabled(m.Name))

		if len(m.Dependencies) > 0 {
			deps := make([]string, 0, len(m.Dependencies))
			for name, constraint := range m.Dependencies {
				deps = append(deps, fmt.Sprintf("%s %s", name, constraint))
			}
			sort.Strings(deps)
			fmt.Printf("Depends: %s\n", strings.Join(deps, ", "))
		}
		if len(m.Hooks) > 0 {
			fmt.Println("Hooks:")
			for _, h := range m.Hooks {
				fmt.Printf("  %-16s %s (priority %d)\n", h.Name, h.Script, h.Priority)
			}
		}
		if len(m.Commands) > 0 {
			fmt.Println("Commands:")
			for _, c := range m.Commands {
				fmt.Printf("  %-16s %s\n", c.Name, c.Description)
			}
		}
		return nil
	},
}

var pluginInstallCmd = &cobra.Command{
	Use:   "install PATH",
	Short: "Install a plugin from a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := pluginManager()
		if err != nil {
			return err
		}
		p, err := manager.Install(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Installed %s %s. Enable it with `hyprsupreme plugin enable %s`.\n",
			p.Manifest.Name, p.Manifest.Version, p.Manifest.Name)
		recordHistory(history.KindPluginChange, p.Manifest.Name, map[string]string{"action": "install"})
		return nil
	},
}

var pluginUninstallCmd = &cobra.Command{
	Use:   "uninstall NAME",
	Short: "Remove an installed plugin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := pluginManager()
		if err != nil {
			return err
		}
		if err := manager.Uninstall(args[0]); err != nil {
			return err
		}
		fmt.Printf("Uninstalled %s.\n", args[0])
		recordHistory(history.KindPluginChange, args[0], map[string]string{"action": "uninstall"})
		return nil
	},
}

var pluginEnableCmd = &cobra.Command{
	Use:   "enable NAME",
	Short: "Enable a plugin and its dependencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := pluginManager()
		if err != nil {
			return err
		}
		if err := manager.Enable(args[0]); err != nil {
			return err
		}
		fmt.Printf("Enabled %s.\n", args[0])
		recordHistory(history.KindPluginChange, args[0], map[string]string{"action": "enable"})
		return nil
	},
}

var pluginDisableCmd = &cobra.Command{
	Use:   "disable NAME",
	Short: "Disable a plugin and its dependents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := pluginManager()
		if err != nil {
			return err
		}
		if err := manager.Disable(args[0]); err != nil {
			return err
		}
		fmt.Printf("Disabled %s.\n", args[0])
		recordHistory(history.KindPluginChange, args[0], map[string]string{"action": "disable"})
		return nil
	},
}

var pluginRunCmd = &cobra.Command{
	Use:   "run NAME COMMAND [ARGS...]",
	Short: "Run a command provided by an enabled plugin",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := pluginManager()
		if err != nil {
			return err
		}
		out, err := manager.RunCommand(cmd.Context(), args[0], args[1], args[2:]...)
		if err != nil {
			return err
		}
		if out != "" {
			fmt.Print(out)
			if !strings.HasSuffix(out, "\n") {
				fmt.Println()
			}
		}
		return nil
	},
}

func init() {
	pluginCmd.AddCommand(pluginListCmd)
	pluginCmd.AddCommand(pluginShowCmd)
	pluginCmd.AddCommand(pluginInstallCmd)
	pluginCmd.AddCommand(pluginUninstallCmd)
	pluginCmd.AddCommand(pluginEnableCmd)
	pluginCmd.AddCommand(pluginDisableCmd)
	pluginCmd.AddCommand(pluginRunCmd)
	rootCmd.AddCommand(pluginCmd)
}
