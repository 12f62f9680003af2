package constants

import (
	"os"
	"strconv"
	"strings"
)

// Output frames per second. Fixed for the lifetime of a conversion.
const Rate = 60

// DefaultTempo is 120 BPM in microseconds per quarter note.
const DefaultTempo = 500000

const (
	ManifestName = "bank.json"
	DrumsDir     = "drums"
	PatchesDir   = "patches"
)

const DefaultPort = 8080

func GetLogLevel() string {
	level := os.Getenv("AXSD_LOG_LEVEL")
	if level != "" {
		return strings.ToLower(level)
	}
	return "info"
}

// GetBankDir returns the sample-bank directory used by serve when no
// --bank flag is given. Empty means no bank.
func GetBankDir() string {
	return os.Getenv("AXSD_BANK_DIR")
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		return DefaultPort
	}
	return port
}

// MaxRequestBytes caps request bodies accepted by serve.
const MaxRequestBytes = 32 << 20
