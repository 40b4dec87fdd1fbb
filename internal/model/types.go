// Package model defines shared data structures.
package model

import "time"

// Cipher names the cipher family a run attacked.
type Cipher string

const (
	CipherMono     Cipher = "mono"
	CipherVigenere Cipher = "vigenere"
)

// MonoConfig defines monoalphabetic break settings.
type MonoConfig struct {
	Restarts int
	Stall    int
	Seed     int64
}

// VigenereConfig defines Vigenère break settings.
type VigenereConfig struct {
	KeyLength int
	Parallel  bool
}

// BreakRecord captures a completed break run.
type BreakRecord struct {
	ID         int64
	StartedAt  time.Time
	EndedAt    time.Time
	Cipher     Cipher
	Input      string
	TextLength int
	KeyLength  int
	Key        string
	Score      int64
	Restarts   int
	Stall      int
	DurationMs int64
}

// RestartRecord stores the outcome of one monoalphabetic restart.
type RestartRecord struct {
	Restart  int
	Key      string
	Score    int64
	Trials   int
	Accepted int
}

// HistoryFilter defines filters for listing break runs.
type HistoryFilter struct {
	Cipher Cipher
	Since  *time.Time
	Last   int
}
