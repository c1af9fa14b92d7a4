package m8db

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "A single-file JSON key/value store with an audit log"
	MsgCreateShort     = "Add a new entry"
	MsgReadShort       = "Print one entry or the whole database"
	MsgUpdateShort     = "Replace the value of an existing entry"
	MsgDeleteShort     = "Remove an entry"
	MsgClearShort      = "Remove every entry"
	MsgHasShort        = "Report whether a key exists"
	MsgCountShort      = "Print the number of entries"
	MsgLogShort        = "Show the audit log"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages into a directory"

	// Status messages
	MsgCreatedFormat = "Entry '%s' created."
	MsgUpdatedFormat = "Entry '%s' updated."
	MsgDeletedFormat = "Entry '%s' deleted."
	MsgCleared       = "Database cleared."
	MsgKeyExists     = "Key '%s' exists."
	MsgCountFormat   = "Entries: %d"
	MsgManWritten    = "Man pages written to %s"
	MsgVersionFormat = "m8db version %s\n  commit: %s\n  built:  %s"

	// Error messages
	MsgErrInvalidValue = "Invalid value for '%s'"
	MsgErrNoCommand    = "no command specified"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDB       = "Database file (default from config: db.json)"
	MsgFlagLog      = "Audit log file (default from config: log.txt)"
	MsgFlagConfig   = "Additional config file to load"
	MsgFlagFormat   = "Output format for read: text, json, yaml or toml"
	MsgFlagNoColor  = "Disable colored output"
	MsgFlagLines    = "Show only the last N lines (0 shows all)"
	MsgFlagDefaults = "Print a commented default config instead"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/create-example.txt
	msgCreateExampleRaw string
	MsgCreateExample    = strings.TrimRight(msgCreateExampleRaw, "\n")

	//go:embed msgs/read-long.txt
	msgReadLongRaw string
	MsgReadLong    = strings.TrimSpace(msgReadLongRaw)

	//go:embed msgs/read-example.txt
	msgReadExampleRaw string
	MsgReadExample    = strings.TrimRight(msgReadExampleRaw, "\n")

	//go:embed msgs/log-long.txt
	msgLogLongRaw string
	MsgLogLong    = strings.TrimSpace(msgLogLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
