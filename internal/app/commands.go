package app

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agbru/provision/internal/catalog"
	"github.com/agbru/provision/internal/config"
)

// flagSource is satisfied by *cobra.Command.
type flagSource interface {
	Flags() *pflag.FlagSet
}

// NewRootCommand returns the provision command tree. Commands that run an
// installation store their exit code in code.
func NewRootCommand(a *Application, code *int) *cobra.Command {
	root := &cobra.Command{
		Use:           "provision",
		Short:         "Install a curated catalog of developer tools through the system package manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.BindGlobalFlags(root.PersistentFlags(), &a.Config)

	root.AddCommand(installCommand(a, code))
	root.AddCommand(listCommand(a))
	root.AddCommand(versionCommand(a))
	return root
}

func installCommand(a *Application, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [categories...]",
		Short: "Install the items of the selected categories",
		Long: `Install every item of the selected categories, in catalog order.

Items already present are skipped unless --force is given. With no
categories, or the category "all", the whole catalog is installed.

Exit codes:
  0    every item is installed or was already present
  1    at least one item failed
  2    the run timed out
  4    configuration error
  5    the package manager is unusable
  130  the run was canceled`,
		ValidArgsFunction: a.completeCategories,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return a.prepare(cmd, args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.runInstall(cmd.Context())
			*code = c
			return err
		},
	}
	config.BindInstallFlags(cmd.Flags(), &a.Config)
	return cmd
}

func listCommand(a *Application) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:               "list [categories...]",
		Short:             "Print the catalog",
		ValidArgsFunction: a.completeCategories,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return a.prepare(cmd, args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runList(cmd.Context(), check)
		},
	}
	config.BindCommonFlags(cmd.Flags(), &a.Config)
	cmd.Flags().BoolVar(&check, "check", false, "Probe the package manager for each item")
	return cmd
}

// completeCategories offers the built-in catalog's category names.
func (a *Application) completeCategories(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, name := range append(catalog.Default().Categories(), "all") {
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(toComplete)) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
