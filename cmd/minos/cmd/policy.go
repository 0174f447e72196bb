package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tartarus-sandbox/minos/pkg/domain"
	"github.com/tartarus-sandbox/minos/pkg/hermes/audit"
	"github.com/tartarus-sandbox/minos/pkg/themis"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Author and manage queue access policies",
	Long:  `Validate, normalize, resolve, compare, and store policy documents.`,
}

var policyValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a policy document",
	Args:  cobra.ExactArgs(1),
	RunE:  runPolicyValidate,
}

var policyRenderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Re-emit a policy document in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE:  runPolicyRender,
}

var policyResolveCmd = &cobra.Command{
	Use:   "resolve <file>",
	Short: "Resolve a policy against the queue directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runPolicyResolve,
}

var policyDiffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Resolve two policies and compare them",
	Args:  cobra.ExactArgs(2),
	RunE:  runPolicyDiff,
}

var policyPushCmd = &cobra.Command{
	Use:   "push <name> <file>",
	Short: "Store a policy document under a name",
	Args:  cobra.ExactArgs(2),
	RunE:  runPolicyPush,
}

var policyPullCmd = &cobra.Command{
	Use:   "pull <name>",
	Short: "Print a stored policy document",
	Args:  cobra.ExactArgs(1),
	RunE:  runPolicyPull,
}

var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored policies",
	RunE:  runPolicyList,
}

var policyDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored policy",
	Args:  cobra.ExactArgs(1),
	RunE:  runPolicyDelete,
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyValidateCmd)
	policyCmd.AddCommand(policyRenderCmd)
	policyCmd.AddCommand(policyResolveCmd)
	policyCmd.AddCommand(policyDiffCmd)
	policyCmd.AddCommand(policyPushCmd)
	policyCmd.AddCommand(policyPullCmd)
	policyCmd.AddCommand(policyListCmd)
	policyCmd.AddCommand(policyDeleteCmd)
}

func loadPolicyFile(path string) (*themis.QueuePermission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	p, err := themis.UnmarshalPolicy(data)
	if err != nil {
		return nil, err
	}
	p.SetLogger(newLogger())
	return p, nil
}

func describeSelector(e *themis.PermissionEntry) string {
	if e.IsPath() {
		return string(e.Path())
	}
	c := e.Criteria()
	var parts []string
	if c.Machine != "" {
		parts = append(parts, "machine="+c.Machine)
	}
	if c.Label != "" {
		parts = append(parts, "label="+c.Label)
	}
	if c.Category != uuid.Nil {
		parts = append(parts, "category="+c.Category.String())
	}
	return strings.Join(parts, " ")
}

func printGrants(cmd *cobra.Command, grants map[domain.FormatName]domain.QueueAccess) {
	if len(grants) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "(no grants)")
		return
	}
	names := make([]string, 0, len(grants))
	byName := make(map[string]domain.QueueAccess, len(grants))
	for fn, access := range grants {
		names = append(names, string(fn))
		byName[string(fn)] = access
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "QUEUE\tACCESS")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%s\n", name, byName[name])
	}
	w.Flush()
}

func runPolicyValidate(cmd *cobra.Command, args []string) error {
	p, err := loadPolicyFile(args[0])
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "✗ %v\n", err)
		return err
	}

	out := cmd.OutOrStdout()
	if p.IsUnrestricted() {
		fmt.Fprintln(out, "✓ Policy is valid (unrestricted)")
		return nil
	}
	fmt.Fprintf(out, "✓ Policy is valid (%d entries)\n", p.Len())

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "KIND\tSELECTOR\tACCESS")
	for i := 0; i < p.Len(); i++ {
		e := p.Entry(i)
		kind := "criteria"
		if e.IsPath() {
			kind = "path"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", kind, describeSelector(e), e.Access())
	}
	w.Flush()
	return nil
}

func runPolicyRender(cmd *cobra.Command, args []string) error {
	p, err := loadPolicyFile(args[0])
	if err != nil {
		return err
	}
	data, err := themis.MarshalPolicy(p)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runPolicyResolve(cmd *cobra.Command, args []string) error {
	p, err := loadPolicyFile(args[0])
	if err != nil {
		return err
	}
	if p.IsUnrestricted() {
		fmt.Fprintln(cmd.OutOrStdout(), "Policy is unrestricted; every queue access is granted.")
		return nil
	}

	dir, err := openDirectory()
	if err != nil {
		return err
	}
	if err := p.Resolve(cmd.Context(), resolverFor(dir)); err != nil {
		return err
	}
	printGrants(cmd, p.Grants())
	return nil
}

func runPolicyDiff(cmd *cobra.Command, args []string) error {
	a, err := loadPolicyFile(args[0])
	if err != nil {
		return err
	}
	b, err := loadPolicyFile(args[1])
	if err != nil {
		return err
	}

	dir, err := openDirectory()
	if err != nil {
		return err
	}
	resolver := resolverFor(dir)
	if err := a.Resolve(cmd.Context(), resolver); err != nil {
		return err
	}
	if err := b.Resolve(cmd.Context(), resolver); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	aSub, err := a.IsSubsetOf(b)
	if err != nil {
		return err
	}
	bSub, err := b.IsSubsetOf(a)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s is a subset of %s: %v\n", args[0], args[1], aSub)
	fmt.Fprintf(out, "%s is a subset of %s: %v\n", args[1], args[0], bSub)

	union, err := a.Union(b)
	if err != nil {
		return err
	}
	intersection, err := a.Intersect(b)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\nUnion:")
	printPermission(cmd, union)
	fmt.Fprintln(out, "\nIntersection:")
	printPermission(cmd, intersection)
	return nil
}

func printPermission(cmd *cobra.Command, p themis.Permission) {
	if p == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "(no grants)")
		return
	}
	qp, ok := p.(*themis.QueuePermission)
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "%v\n", p)
		return
	}
	if qp.IsUnrestricted() {
		fmt.Fprintln(cmd.OutOrStdout(), "(unrestricted)")
		return
	}
	printGrants(cmd, qp.Grants())
}

func runPolicyPush(cmd *cobra.Command, args []string) error {
	name := args[0]
	p, err := loadPolicyFile(args[1])
	if err != nil {
		return err
	}

	store, err := openPolicyStore()
	if err != nil {
		return err
	}
	auditor, err := openAuditor()
	if err != nil {
		return err
	}

	if err := store.Put(cmd.Context(), name, p); err != nil {
		auditor.Record(cmd.Context(), &audit.Event{
			Action: audit.ActionPutPolicy,
			Result: audit.ResultError,
			Detail: err.Error(),
			Metadata: map[string]any{
				"policy": name,
			},
		})
		return err
	}
	auditor.Record(cmd.Context(), &audit.Event{
		Action: audit.ActionPutPolicy,
		Result: audit.ResultSuccess,
		Metadata: map[string]any{
			"policy":  name,
			"entries": p.Len(),
		},
	})

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Stored policy %q\n", name)
	return nil
}

func runPolicyPull(cmd *cobra.Command, args []string) error {
	store, err := openPolicyStore()
	if err != nil {
		return err
	}
	p, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	data, err := themis.MarshalPolicy(p)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runPolicyList(cmd *cobra.Command, args []string) error {
	store, err := openPolicyStore()
	if err != nil {
		return err
	}
	names, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No policies stored.")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func runPolicyDelete(cmd *cobra.Command, args []string) error {
	name := args[0]
	store, err := openPolicyStore()
	if err != nil {
		return err
	}
	auditor, err := openAuditor()
	if err != nil {
		return err
	}

	if err := store.Delete(cmd.Context(), name); err != nil {
		auditor.Record(cmd.Context(), &audit.Event{
			Action: audit.ActionDeletePolicy,
			Result: audit.ResultError,
			Detail: err.Error(),
			Metadata: map[string]any{
				"policy": name,
			},
		})
		return err
	}
	auditor.Record(cmd.Context(), &audit.Event{
		Action: audit.ActionDeletePolicy,
		Result: audit.ResultSuccess,
		Metadata: map[string]any{
			"policy": name,
		},
	})

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted policy %q\n", name)
	return nil
}
