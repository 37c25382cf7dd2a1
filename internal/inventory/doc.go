// Package inventory contains the domain logic of the exporter: the record
// types for each report sheet, the pure shaping functions that turn listed
// resources and metric samples into rows, the batch accumulator that bounds
// memory between flushes, and the collector that orchestrates a full run.
//
// The collector is written against narrow interfaces (Source, RowWriter)
// so the whole pipeline runs in tests against fakes with no Azure or file
// I/O involved.
//
// Behavioral contract, per resource kind:
//   - StorageAccounts: every account is reported; used capacity comes from
//     the UsedCapacity metric, zero when the series is empty.
//   - Databases: every database except the "master" system database; used
//     size from the storage metric, max size from the configured quota.
//   - VMs: every VM that is not deallocated; total disk is the OS disk plus
//     all data disks. Power state requires a per-VM instance view call.
//
// Failures below the subscription-enumeration level never abort a run: the
// failing item is logged, recorded on the Summary as a Skip, and omitted
// from the report.
package inventory
