// Verdict is a compliance evaluation engine for conversational agents in
// regulated European domains.
//
// It evaluates conversation transcripts against policy packs (DiGA mental
// health, EU AI Act recruiting, GDPR, German consumer sales), producing a
// score, a compliance verdict, and a tamper-evident audit record.
//
// Usage:
//
//	# Start the HTTP server with default configuration
//	verdict run
//
//	# Start with a custom configuration file
//	verdict run --config /etc/verdict/config.yaml
//
//	# Evaluate a transcript file from the command line
//	verdict evaluate --pack mental-health-de --file transcript.txt
//
//	# List the registered policy packs
//	verdict packs
//
//	# Export stored audit records
//	verdict audits export --format csv --output audits.csv
//
//	# Show version information
//	verdict version
package main

func main() {
	Execute()
}
