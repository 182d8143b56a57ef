package report

import "io"

// ShowHelp prints usage information for the report tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `propcast report
===============

Prints best props, slips and hot & cold picks.

Usage:
  propcast-report [options]

Options:
  -data string
        Data directory to run the pipeline over once
  -url string
        Base URL of a running service, used when -data is empty
  -format string
        Output format: text or json (default "text")
  -seed int
        Slip seed; 0 keeps the configured or published seed
  -preset string
        Slip preset, e.g. two-mans
  -timeout duration
        HTTP request timeout (default 30s)
  -help
        Show this help message

Thresholds come from the same PROPCAST_ environment and PROPCAST_CONFIG
file as the server.

Examples:
  propcast-report -data ./data
  propcast-report -url http://localhost:9080 -format json
`)
}
