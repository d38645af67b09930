package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/timestudy-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Timestudy configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("activity_column: %s\n", cfg.ActivityColumn)
		fmt.Printf("time_column: %s\n", cfg.TimeColumn)
		if cfg.ReworkColumn != "" {
			fmt.Printf("rework_column: %s\n", cfg.ReworkColumn)
		} else {
			fmt.Println("rework_column: (not configured)")
		}
		fmt.Printf("encodings: %s\n", strings.Join(cfg.Encodings, ", "))
		if cfg.Delimiter != "" {
			fmt.Printf("delimiter: %s\n", cfg.Delimiter)
		}
		if cfg.SheetName != "" {
			fmt.Printf("sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Printf("ingest_workers: %d\n", cfg.Workers)
		fmt.Printf("similarity_threshold: %.2f\n", cfg.SimilarityThreshold)
		fmt.Printf("group_palette: %s\n", strings.Join(cfg.GroupPalette, ", "))
		fmt.Printf("store_backend: %s\n", cfg.StoreBackend)
		fmt.Printf("sessions_dir: %s\n", cfg.SessionsDir)
		fmt.Printf("default_session: %s\n", cfg.DefaultSession)
		if cfg.MetricsFile != "" {
			fmt.Printf("metrics_file: %s\n", cfg.MetricsFile)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "activity_column":
			cfg.ActivityColumn = val
		case "time_column":
			cfg.TimeColumn = val
		case "rework_column":
			cfg.ReworkColumn = val
		case "encodings":
			cfg.Encodings = splitList(val)
		case "delimiter":
			cfg.Delimiter = val
		case "sheet_name":
			cfg.SheetName = val
		case "ingest_workers":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for ingest_workers: %w", err)
			}
			cfg.Workers = i
		case "similarity_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for similarity_threshold: %w", err)
			}
			cfg.SimilarityThreshold = f
		case "group_palette":
			cfg.GroupPalette = splitList(val)
		case "store_backend":
			cfg.StoreBackend = strings.ToLower(val)
		case "sessions_dir":
			cfg.SessionsDir = val
		case "default_session":
			cfg.DefaultSession = val
		case "metrics_file":
			cfg.MetricsFile = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func splitList(val string) []string {
	var out []string
	for _, p := range strings.Split(val, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
