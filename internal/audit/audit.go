// Package audit appends destructive-operation entries to a local log.
// Purging a ledger entry is irreversible, so it must leave a trace.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const logDirName = ".git-provenance"

// LogAction appends one entry to ~/.git-provenance/audit.log.
// Format: [RFC3339] id=<uuid> <action> commit=<sha> ns=<namespace> reason=<reason>
func LogAction(action, commitID, namespace, reason string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to locate home directory: %w", err)
	}

	logDir := filepath.Join(home, logDirName)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(logDir, "audit.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	entry := fmt.Sprintf("[%s] id=%s %s commit=%s ns=%s reason=%s\n",
		time.Now().Format(time.RFC3339),
		uuid.NewString(),
		action,
		commitID,
		namespace,
		reason,
	)

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
