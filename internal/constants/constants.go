package constants

import "time"

// Application constants
const (
	ApplicationName = "twopane"
	VendorName      = "nekomimist"
	EnvPrefix       = "TWOPANE"
)

// Naming constants
const (
	// CopyInfix separates the original stem from the collision counter: a_copy_2.txt
	CopyInfix = "_copy_"
	// NameJoiner joins prefix, stem, suffix and rename-many counters
	NameJoiner = "_"
)

// Rename tokens resolved per item by rename-many
const (
	TokenToday            = "%today%"
	TokenCreationDate     = "%creationd%"
	TokenCreationDateTime = "%creationdt%"

	DateLayout     = "20060102"
	DateTimeLayout = "20060102150405"
)

// Listing constants
const (
	DefaultTimestampLayout  = "2006/01/02 15:04:05"
	DefaultDirectoriesFirst = true
	DocumentsDirName        = "Documents"
)

// History constants
const (
	DefaultHistoryMaxEntries  = 0 // unbounded
	DefaultRecordEmptyBatches = true
)

// Configuration constants
const (
	ConfigFileName  = "config.json"
	DefaultLogLevel = "info"
)

// Job runner constants
const (
	DefaultJobHistory = 50 // finished jobs kept for listing
)

// Directory watcher constants
const (
	WatcherBufferSize = 10
	// WatcherSettleDelay batches bursts of filesystem events into one rescan
	WatcherSettleDelay = 200 * time.Millisecond
)
