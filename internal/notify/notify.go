package notify

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// sendmail lives outside PATH on most distributions.
var sendmailCandidates = []string{"/usr/sbin/sendmail", "/usr/lib/sendmail"}

// Send delivers body to addr through the local mail transport, trying
// mail(1) first and sendmail second. Callers treat a returned error as a
// warning: dispatch failure never changes the wrapper's exit code.
func Send(addr, subject, body string) error {
	if addr == "" {
		return fmt.Errorf("no notification address configured")
	}

	if path, err := exec.LookPath("mail"); err == nil {
		cmd := exec.Command(path, "-s", subject, addr)
		cmd.Stdin = strings.NewReader(body)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("mail dispatch failed: %v: %s", err, strings.TrimSpace(string(out)))
		}
		return nil
	}

	if path := findSendmail(); path != "" {
		msg := fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s", addr, subject, body)
		cmd := exec.Command(path, "-t")
		cmd.Stdin = strings.NewReader(msg)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("sendmail dispatch failed: %v: %s", err, strings.TrimSpace(string(out)))
		}
		return nil
	}

	return fmt.Errorf("no mail transport available (tried mail, sendmail)")
}

// FailureSubject builds the subject line for a failed invocation.
func FailureSubject(hostname, name string, exitCode int) string {
	return fmt.Sprintf("[runwrap] FAILED on %s: %s (exit %d)", hostname, name, exitCode)
}

func findSendmail() string {
	if path, err := exec.LookPath("sendmail"); err == nil {
		return path
	}
	for _, path := range sendmailCandidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
