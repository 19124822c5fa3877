// Package pipeline runs the analytics stages in order: load the CSV,
// derive the enriched sales table, aggregate it and project the revenue
// initiatives.
//
// Prepare covers the two stages that touch the input file and Analyze the
// two that work on an already derived Dataset, so a long-running dashboard
// can load once and analyze per request. Run chains both for the batch
// report. Every step gets an OpenTelemetry span and a StepState; a failed
// step skips the rest of the run.
package pipeline
