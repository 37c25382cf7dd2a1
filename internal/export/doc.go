// Package export writes inventory rows to a spreadsheet workbook.
//
// A Workbook accumulates rows per named sheet and saves one xlsx file on
// Close. Append semantics across batches make it compose with incremental
// flushing: every flush for a given resource kind lands in the same sheet,
// below the rows already written. A sheet that never receives a non-empty
// batch is never created, and a run that produces no rows at all leaves no
// file behind.
package export
