package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tartarus-sandbox/minos/pkg/domain"
)

var directoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Manage the queue directory",
}

var directoryRegisterCmd = &cobra.Command{
	Use:   "register <path>",
	Short: "Register a queue",
	Args:  cobra.ExactArgs(1),
	RunE:  runDirectoryRegister,
}

var directoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered queues",
	RunE:  runDirectoryList,
}

var directoryDeregisterCmd = &cobra.Command{
	Use:   "deregister <path>",
	Short: "Remove a queue registration",
	Args:  cobra.ExactArgs(1),
	RunE:  runDirectoryDeregister,
}

var (
	registerFormatName string
	registerMachine    string
	registerLabel      string
	registerCategory   string
)

func init() {
	rootCmd.AddCommand(directoryCmd)
	directoryCmd.AddCommand(directoryRegisterCmd)
	directoryCmd.AddCommand(directoryListCmd)
	directoryCmd.AddCommand(directoryDeregisterCmd)

	directoryRegisterCmd.Flags().StringVar(&registerFormatName, "format-name", "", "Canonical format name (generated when empty)")
	directoryRegisterCmd.Flags().StringVar(&registerMachine, "machine", "", "Hosting machine (defaults to the path's machine segment)")
	directoryRegisterCmd.Flags().StringVar(&registerLabel, "label", "", "Queue label")
	directoryRegisterCmd.Flags().StringVar(&registerCategory, "category", "", "Category identifier (UUID)")
}

func runDirectoryRegister(cmd *cobra.Command, args []string) error {
	path := args[0]

	machine := registerMachine
	if machine == "" {
		if i := strings.IndexByte(path, '\\'); i > 0 {
			machine = path[:i]
		}
	}

	formatName := registerFormatName
	if formatName == "" {
		formatName = "PUBLIC=" + uuid.New().String()
	}

	info := domain.QueueInfo{
		Path:       domain.QueuePath(path),
		FormatName: domain.FormatName(formatName),
		Machine:    machine,
		Label:      registerLabel,
	}
	if registerCategory != "" {
		category, err := uuid.Parse(registerCategory)
		if err != nil {
			return fmt.Errorf("invalid category: %w", err)
		}
		info.Category = category
	}

	dir, err := openDirectory()
	if err != nil {
		return err
	}
	if err := dir.Register(cmd.Context(), info); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Registered %s as %s\n", path, info.FormatName)
	return nil
}

func runDirectoryList(cmd *cobra.Command, args []string) error {
	dir, err := openDirectory()
	if err != nil {
		return err
	}
	infos, err := dir.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No queues registered.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PATH\tFORMAT NAME\tMACHINE\tLABEL\tCATEGORY")
	for _, info := range infos {
		category := ""
		if info.Category != uuid.Nil {
			category = info.Category.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", info.Path, info.FormatName, info.Machine, info.Label, category)
	}
	w.Flush()
	return nil
}

func runDirectoryDeregister(cmd *cobra.Command, args []string) error {
	dir, err := openDirectory()
	if err != nil {
		return err
	}
	if err := dir.Deregister(cmd.Context(), domain.QueuePath(args[0])); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deregistered %s\n", args[0])
	return nil
}
