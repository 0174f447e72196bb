package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tartarus-sandbox/minos/pkg/hades"
	"github.com/tartarus-sandbox/minos/pkg/hermes"
	"github.com/tartarus-sandbox/minos/pkg/hermes/audit"
	"github.com/tartarus-sandbox/minos/pkg/themis"
)

// queueDirectory is the full directory surface the CLI works against:
// lookups for policy resolution plus registration management.
type queueDirectory interface {
	hades.Directory
	hades.Registrar
}

func openDirectory() (queueDirectory, error) {
	switch directoryBackend {
	case "redis":
		return hades.NewRedisDirectory(redisAddr, redisDB, cfg.RedisPassword)
	case "memory":
		return hades.NewMemoryDirectory(), nil
	default:
		return nil, fmt.Errorf("unknown directory backend %q", directoryBackend)
	}
}

// resolverFor wraps the backend with the configured lookup throttle.
// Registration traffic goes to the backend directly.
func resolverFor(d hades.Directory) hades.Directory {
	if cfg.DirectoryRate > 0 {
		return hades.NewThrottledDirectory(d, cfg.DirectoryRate, cfg.DirectoryBurst)
	}
	return d
}

func openPolicyStore() (themis.Store, error) {
	switch policyBackend {
	case "redis":
		return themis.NewRedisStore(redisAddr, redisDB, cfg.RedisPassword)
	case "memory":
		return themis.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown policy backend %q", policyBackend)
	}
}

func openAuditor() (audit.Auditor, error) {
	if auditPath == "" {
		return audit.NewNoopAuditor(), nil
	}
	if err := os.MkdirAll(filepath.Dir(auditPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}
	store, err := audit.NewFileStore(auditPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit trail: %w", err)
	}
	if cfg.AuditSecret != "" {
		chained := audit.NewTamperEvidentStore(store, audit.NewChainManager([]byte(cfg.AuditSecret)))
		return audit.NewStandardAuditor(chained), nil
	}
	return audit.NewStandardAuditor(store), nil
}

func newLogger() hermes.Logger {
	return hermes.NewSlogAdapterAt(os.Stderr, hermes.ParseLevel(logLevel))
}
