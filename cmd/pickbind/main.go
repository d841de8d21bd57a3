// Package main is the entry point for the pickbind CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dshills/pickbind/internal/app"
	"github.com/dshills/pickbind/internal/binding"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "pickbind",
		Short:   "pickbind — scoped key binding dispatch with a fuzzy picker demo",
		Version: version,
	}

	root.AddCommand(
		runCmd(),
		dumpCmd(),
		keyCmd(),
	)

	return root
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [items...]",
		Short: "Run the picker; chosen items print on exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.WarnLevel)
			}

			config, _ := cmd.Flags().GetString("config")
			initLua, _ := cmd.Flags().GetString("init")
			items, _ := cmd.Flags().GetString("items")

			opts, err := pickerOptions(config, initLua, items, args)
			if err != nil {
				return err
			}
			if len(opts.Items) == 0 {
				return fmt.Errorf("no items: pass them as arguments or with --items")
			}

			a, err := app.New(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			chosen, err := a.Run()
			if err != nil {
				return err
			}
			for _, item := range chosen {
				fmt.Println(item)
			}
			return nil
		},
	}
	cmd.Flags().String("config", "", "mapping config file (.toml or .json)")
	cmd.Flags().String("init", "", "Lua init script")
	cmd.Flags().String("items", "", "file with one item per line")
	cmd.Flags().Bool("verbose", false, "enable debug logging")
	return cmd
}

func dumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Merge the configured layers and print the effective table as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetLevel(log.WarnLevel)

			config, _ := cmd.Flags().GetString("config")
			initLua, _ := cmd.Flags().GetString("init")

			opts, err := pickerOptions(config, initLua, "", nil)
			if err != nil {
				return err
			}

			a, err := app.New(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := binding.ExportJSON(a.Table())
			if err != nil {
				return err
			}
			fmt.Println(strings.TrimSpace(string(data)))
			return nil
		},
	}
	cmd.Flags().String("config", "", "mapping config file (.toml or .json)")
	cmd.Flags().String("init", "", "Lua init script")
	return cmd
}

func keyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key <chord>...",
		Short: "Print the canonical form of key chord notations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, _ := cmd.Flags().GetString("mode")
			out, err := formatKeys(mode, args)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	cmd.Flags().String("mode", "n", "mode half of the identity")
	return cmd
}

// pickerOptions assembles app options from CLI inputs. The config file
// format follows its extension; items come from a file when given,
// otherwise from the argument list.
func pickerOptions(config, initLua, items string, args []string) (app.Options, error) {
	var opts app.Options

	switch ext := filepath.Ext(config); {
	case config == "":
	case ext == ".toml":
		opts.ConfigTOML = config
	case ext == ".json":
		opts.ConfigJSON = config
	default:
		return app.Options{}, fmt.Errorf("unsupported config format %q (want .toml or .json)", ext)
	}

	opts.InitLua = initLua

	if items != "" {
		list, err := loadItems(items)
		if err != nil {
			return app.Options{}, err
		}
		opts.Items = list
	} else {
		opts.Items = args
	}

	return opts, nil
}

// loadItems reads one item per line, skipping blank lines.
func loadItems(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	var items []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items, nil
}

// formatKeys renders one canonical identity per notation, aligned the way
// the input was given.
func formatKeys(mode string, notations []string) (string, error) {
	var b strings.Builder
	for _, raw := range notations {
		id, err := binding.Identity(mode, raw)
		if err != nil {
			return "", fmt.Errorf("%q: %w", raw, err)
		}
		fmt.Fprintf(&b, "%-16s %s\n", raw, id)
	}
	return b.String(), nil
}
