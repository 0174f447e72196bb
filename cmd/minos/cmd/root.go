package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tartarus-sandbox/minos/pkg/config"
)

var cfg = config.Load()

var (
	redisAddr        string
	redisDB          int
	directoryBackend string
	policyBackend    string
	auditPath        string
	logLevel         string
)

var rootCmd = &cobra.Command{
	Use:   "minos",
	Short: "Minos CLI",
	Long:  `A developer-facing tool to author, resolve, and apply queue access policies.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the redis-backed directory and policy store")
	rootCmd.PersistentFlags().IntVar(&redisDB, "redis-db", cfg.RedisDB, "Redis database number")
	rootCmd.PersistentFlags().StringVar(&directoryBackend, "directory-backend", cfg.DirectoryBackend, "Queue directory backend (memory or redis)")
	rootCmd.PersistentFlags().StringVar(&policyBackend, "policy-backend", cfg.PolicyBackend, "Policy store backend (memory or redis)")
	rootCmd.PersistentFlags().StringVar(&auditPath, "audit-path", cfg.AuditPath, "Audit trail file (empty disables auditing)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (DEBUG, INFO, WARN, ERROR)")
}
