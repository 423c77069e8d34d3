package cli

import (
	"embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Synchronize entity trees with record files"
	MsgImportShort     = "Import record files into the store"
	MsgExportShort     = "Export stored entities to record files"
	MsgCleanShort      = "Delete empty containers from the store"
	MsgConfigShort     = "Print the default configuration"
	MsgConfigLong      = "Print the built-in defaults as TOML, ready to be saved as synctree.toml in a sync root."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"

	// Status messages
	MsgDryRunNotice = "\nDRY RUN - the store was not saved"

	// Error messages
	MsgErrOutcomesFailed = "%d of %d outcomes failed"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig  = "Config file (default <root>/synctree.toml)"
	MsgFlagStore   = "Store snapshot path, relative to the root"
	MsgFlagBackend = "Store backend: memory, yaml or mongo"
	MsgFlagFormat  = "Output format: auto, terminal, text or json"
	MsgFlagFlat    = "Use the flat layout, ordered by record level"
	MsgFlagForce   = "Save records even when unchanged"
	MsgFlagNoClean = "Do not delete empty containers after import"
	MsgFlagKind    = "Entity kind to process (repeatable)"
	MsgFlagDryRun  = "Preview changes without saving the store or writing files"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/import-long.txt
	msgImportLongRaw string
	MsgImportLong    = strings.TrimSpace(msgImportLongRaw)

	//go:embed msgs/import-example.txt
	msgImportExampleRaw string
	MsgImportExample    = strings.TrimRight(msgImportExampleRaw, "\n")

	//go:embed msgs/export-long.txt
	msgExportLongRaw string
	MsgExportLong    = strings.TrimSpace(msgExportLongRaw)

	//go:embed msgs/export-example.txt
	msgExportExampleRaw string
	MsgExportExample    = strings.TrimRight(msgExportExampleRaw, "\n")

	//go:embed msgs/clean-long.txt
	msgCleanLongRaw string
	MsgCleanLong    = strings.TrimSpace(msgCleanLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)

// helpTopics holds the markdown pages served by "synctree help <topic>".
//
//go:embed help/*.md
var helpTopics embed.FS
