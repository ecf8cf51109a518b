package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"manuals-go/internal/app"
	"manuals-go/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when it does not exist.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.Load(defaults["config_path"], defaults["base_dir"])
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

// newApp reads the config and creates a ManualsApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "import", "seed").
func newApp(operation string) (*app.ManualsApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewManualsApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func argOrEmpty(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:          "manuals",
	Short:        "Map manual directories and import them as lessons",
	SilenceUsage: true,
}

// map command
var mapCmd = &cobra.Command{
	Use:   "map [INPUT_DIR] [OUTPUT_FILE]",
	Short: "Snapshot a manuals directory tree to JSON",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("map")
		if err != nil {
			return err
		}
		defer a.Close()

		schema, key, err := a.MapDirectory(argOrEmpty(args, 0), argOrEmpty(args, 1))
		if err != nil {
			return fmt.Errorf("mapping directory: %w", err)
		}

		fmt.Printf("Schema written to %s\n", key)
		fmt.Printf("Directories: %d (leaf: %d)\n", schema.Totals.Directories, schema.Totals.LeafDirectories)
		fmt.Printf("Files:       %d\n", schema.Totals.Files)
		return nil
	},
}

// import command
var importCmd = &cobra.Command{
	Use:   "import [INPUT_SNAPSHOT] [BASE_URL]",
	Short: "Upsert groups, paths and lessons from a snapshot",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(args); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to import manuals: %v\n", err)
			os.Exit(1)
		}
	},
}

func runImport(args []string) error {
	a, err := newApp("import")
	if err != nil {
		return err
	}

	summary, err := a.ImportManuals(argOrEmpty(args, 0), argOrEmpty(args, 1))
	// Close before a possible os.Exit so the run record is finished.
	closeErr := a.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	fmt.Println("Manuals imported.")
	fmt.Printf("Groups:  %d created, %d updated, %d unchanged\n",
		summary.Groups.Created, summary.Groups.Updated, summary.Groups.Unchanged)
	fmt.Printf("Paths:   %d created, %d updated, %d unchanged\n",
		summary.Paths.Created, summary.Paths.Updated, summary.Paths.Unchanged)
	fmt.Printf("Lessons: %d created, %d updated, %d unchanged\n",
		summary.Lessons.Created, summary.Lessons.Updated, summary.Lessons.Unchanged)
	return nil
}

// seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the ADMIN role and its permissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("seed")
		if err != nil {
			return err
		}
		defer a.Close()

		res, granted, err := a.Seed()
		if err != nil {
			return fmt.Errorf("seeding: %w", err)
		}

		fmt.Printf("Role %s holds %d permission(s)\n", res.Role.Name, granted)
		return nil
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("migrate")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.MigrateDatabase(); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		fmt.Println("Database is up to date.")
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("status")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DatabaseStatus(); err != nil {
			return err
		}
		fmt.Println("Database is up to date.")
		return nil
	},
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup DEST",
	Short: "Copy the SQLite database to DEST",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("backup")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.BackupDatabase(args[0]); err != nil {
			return fmt.Errorf("backing up database: %w", err)
		}
		fmt.Printf("Database copied to %s\n", args[0])
		return nil
	},
}

// groups command
var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("groups")
		if err != nil {
			return err
		}
		defer a.Close()

		groups, err := a.ListGroups()
		if err != nil {
			return err
		}

		if len(groups) == 0 {
			fmt.Println("No groups imported.")
			return nil
		}

		for _, g := range groups {
			kind := "regular"
			if g.IsExplorer {
				kind = "explorer"
			}
			fmt.Printf("%02d  %-8s  %s\n", g.Code, kind, g.Name)
		}
		return nil
	},
}

// lessons command
var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		group, _ := cmd.Flags().GetString("group")
		groupCode := -1
		if group != "" {
			n, err := strconv.Atoi(group)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid group code %q", group)
			}
			groupCode = n
		}

		a, err := newApp("lessons")
		if err != nil {
			return err
		}
		defer a.Close()

		lessons, err := a.ListLessons(groupCode)
		if err != nil {
			return err
		}

		if len(lessons) == 0 {
			fmt.Println("No lessons found.")
			return nil
		}

		for _, l := range lessons {
			fmt.Printf("%-20s  %s  %s\n", l.Code, l.Name, l.FileURL)
		}
		return nil
	},
}

var lessonsDeleteCmd = &cobra.Command{
	Use:   "delete CODE",
	Short: "Soft-delete a lesson (the next import restores it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("delete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteLesson(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted lesson %s\n", args[0])
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("history")
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.GetHistory(limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		for _, r := range runs {
			duration := ""
			if r.FinishedAt != nil {
				duration = r.FinishedAt.Sub(r.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Printf("%s  %-8s  %s  %-8s  %-10s  %s\n",
				r.ID[:8],
				r.Operation,
				r.StartedAt.Format("2006-01-02 15:04:05"),
				r.Status,
				duration,
				r.Parameters,
			)
		}
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Log Level:   %s\n", cfg.LogLevel)
		fmt.Printf("Database:    %s\n", cfg.Database.Type)
		fmt.Printf("Vault:       %s\n", cfg.Vault.Type)
		fmt.Printf("Input Dir:   %s\n", cfg.Manuals.InputDir)
		fmt.Printf("Schema Path: %s\n", cfg.Manuals.SchemaPath)
		fmt.Printf("Base URL:    %s\n", cfg.Manuals.BaseURL)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// db subcommands
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbBackupCmd)

	// lessons subcommands
	lessonsCmd.AddCommand(lessonsDeleteCmd)
	lessonsCmd.Flags().StringP("group", "g", "", "Only list lessons of this group code")

	// root commands
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")
	rootCmd.AddCommand(configCmd)
}
