package main

import (
	"fmt"
	"os"
	"path/filepath"

	"flipforma-backend/internal/cli"
	proformahandlers "flipforma-backend/internal/interfaces/handlers/proforma"

	"github.com/spf13/cobra"
)

var (
	flagPrefix string
	flagOut    string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage saved projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved projects, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, done, err := openService()
		if err != nil {
			return err
		}
		defer done()

		list, err := svc.List(cmd.Context(), flagPrefix)
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), list)
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "\n  No saved projects.")
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), cli.RenderTable(cli.ProjectsTable(list)))
		return nil
	},
}

var projectsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Compute and show a saved project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openService()
		if err != nil {
			return err
		}
		defer done()

		p, err := svc.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if flagJSON {
			data := proformahandlers.Computation(p.Inputs, p.RenovationItems, p.FinancingSources)
			data["project"] = p
			return writeJSON(cmd.OutOrStdout(), data)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderProforma(p.Name(), p.Inputs, p.RenovationItems, p.FinancingSources))
		return nil
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openService()
		if err != nil {
			return err
		}
		defer done()

		if err := svc.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var projectsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write a saved project as <name>.json (or to --out, \"-\" for stdout)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openService()
		if err != nil {
			return err
		}
		defer done()

		body, name, err := svc.Export(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if flagOut == "-" {
			_, err := cmd.OutOrStdout().Write(append(body, '\n'))
			return err
		}
		path := flagOut
		if path == "" {
			path = name
		} else if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, name)
		}
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], path)
		return nil
	},
}

var projectsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an exported project file as a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		blob, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		svc, done, err := openService()
		if err != nil {
			return err
		}
		defer done()

		p, err := svc.Import(cmd.Context(), blob)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported and saved as %s\n", p.ID)
		return nil
	},
}

func init() {
	projectsListCmd.Flags().StringVar(&flagPrefix, "prefix", "", "Only ids starting with this prefix")
	projectsExportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output file or directory")
	projectsCmd.AddCommand(projectsListCmd, projectsShowCmd, projectsDeleteCmd, projectsExportCmd, projectsImportCmd)
	rootCmd.AddCommand(projectsCmd)
}
