package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tartarus-sandbox/minos/pkg/cerberus"
	"github.com/tartarus-sandbox/minos/pkg/domain"
	"github.com/tartarus-sandbox/minos/pkg/hermes"
	"github.com/tartarus-sandbox/minos/pkg/hermes/audit"
	"github.com/tartarus-sandbox/minos/pkg/themis"
)

var aclCmd = &cobra.Command{
	Use:   "acl",
	Short: "Check and apply queue access control",
}

var aclCheckCmd = &cobra.Command{
	Use:   "check <policy-file>",
	Short: "Check whether a policy grants an access level to a queue",
	Args:  cobra.ExactArgs(1),
	RunE:  runACLCheck,
}

var aclApplyCmd = &cobra.Command{
	Use:   "apply <policy-file>",
	Short: "Stamp a policy's grants for one queue onto its ACL",
	Long: `Resolves the policy, translates its access for the queue into native
rights, and writes them to the queue's ACL for the given trustee. Requires
a Windows NT host unless --dry-run is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runACLApply,
}

var (
	aclQueue   string
	aclAccess  string
	aclTrustee string
	aclMode    string
	aclDryRun  bool
)

func init() {
	rootCmd.AddCommand(aclCmd)
	aclCmd.AddCommand(aclCheckCmd)
	aclCmd.AddCommand(aclApplyCmd)

	aclCheckCmd.Flags().StringVar(&aclQueue, "queue", "", "Queue path to check")
	aclCheckCmd.Flags().StringVar(&aclAccess, "access", "", "Access level to check (e.g. Send, Peek|Receive)")

	aclApplyCmd.Flags().StringVar(&aclQueue, "queue", "", "Queue path to apply to")
	aclApplyCmd.Flags().StringVar(&aclTrustee, "trustee", "", "Account the entries are for")
	aclApplyCmd.Flags().StringVar(&aclMode, "mode", "set", "Entry disposition: grant, set, deny, or revoke")
	aclApplyCmd.Flags().BoolVar(&aclDryRun, "dry-run", false, "Run the build against an in-process simulated subsystem")
}

// resolveQueue turns the --queue path into the format name grants are
// keyed by.
func resolveQueue(cmd *cobra.Command, p *themis.QueuePermission) (domain.FormatName, error) {
	if aclQueue == "" {
		return "", fmt.Errorf("--queue is required")
	}
	dir, err := openDirectory()
	if err != nil {
		return "", err
	}
	resolver := resolverFor(dir)
	if err := p.Resolve(cmd.Context(), resolver); err != nil {
		return "", err
	}
	return resolver.Resolve(cmd.Context(), domain.QueuePath(aclQueue))
}

func runACLCheck(cmd *cobra.Command, args []string) error {
	p, err := loadPolicyFile(args[0])
	if err != nil {
		return err
	}
	if aclQueue == "" {
		return fmt.Errorf("--queue is required")
	}
	want := domain.ParseQueueAccess(aclAccess)
	if want == 0 {
		return fmt.Errorf("--access must name at least one access level")
	}

	auditor, err := openAuditor()
	if err != nil {
		return err
	}

	var granted bool
	queue := aclQueue
	if p.IsUnrestricted() {
		granted = true
	} else {
		fn, err := resolveQueue(cmd, p)
		if err != nil {
			return err
		}
		queue = string(fn)
		granted = p.AccessTo(fn).Has(want)
	}

	result := audit.ResultDenied
	if granted {
		result = audit.ResultSuccess
	}
	auditor.Record(cmd.Context(), &audit.Event{
		Action: audit.ActionAccessCheck,
		Result: result,
		Queue:  queue,
		Rights: want.String(),
	})

	if !granted {
		fmt.Fprintf(cmd.OutOrStdout(), "✗ %s access to %s is denied\n", want, aclQueue)
		return fmt.Errorf("access denied")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s access to %s is granted\n", want, aclQueue)
	return nil
}

func parseEntryMode(s string) (domain.EntryKind, error) {
	switch s {
	case "grant":
		return domain.EntryGrant, nil
	case "set":
		return domain.EntrySet, nil
	case "deny":
		return domain.EntryDeny, nil
	case "revoke":
		return domain.EntryRevoke, nil
	default:
		return 0, fmt.Errorf("unknown entry mode %q", s)
	}
}

func runACLApply(cmd *cobra.Command, args []string) error {
	p, err := loadPolicyFile(args[0])
	if err != nil {
		return err
	}
	if aclTrustee == "" {
		return fmt.Errorf("--trustee is required")
	}
	mode, err := parseEntryMode(aclMode)
	if err != nil {
		return err
	}

	fn, err := resolveQueue(cmd, p)
	if err != nil {
		return err
	}
	access := p.AccessTo(fn)
	if access == 0 && mode != domain.EntryRevoke {
		return fmt.Errorf("policy grants no access to %s", aclQueue)
	}

	list := cerberus.NewAccessControlList()
	entry := cerberus.NewAccessControlEntry(cerberus.NewTrustee(aclTrustee), access.Rights(), mode)
	if err := list.Add(entry); err != nil {
		return err
	}

	auditor, err := openAuditor()
	if err != nil {
		return err
	}

	var sys cerberus.SecuritySubsystem
	if aclDryRun {
		sim := cerberus.NewSimSubsystem()
		sim.AddAccount(aclTrustee, "", domain.TrusteeUser)
		sys = sim
	} else {
		sys = cerberus.NewHostSubsystem()
	}

	applier := cerberus.NewApplier(sys, newLogger(), hermes.NewNoopMetrics(), auditor)
	if err := applier.Apply(cmd.Context(), fn, list); err != nil {
		return err
	}

	if aclDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dry run: would %s %s for %s on %s\n", aclMode, access.Rights(), aclTrustee, aclQueue)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Applied %s of %s for %s on %s\n", aclMode, access.Rights(), aclTrustee, aclQueue)
	return nil
}
