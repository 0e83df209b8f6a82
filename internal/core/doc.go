// Package core provides the row ledger and quota-limited export engine.
//
// This package holds all domain logic independent of any UI or transport
// layer. It can be used by web handlers, CLI tools, or tests without
// modification.
//
// # Architecture
//
//   - Taxonomy: read-only category → type → subtype index with per-subtype
//     attribute options. Catalogue data registers at init time with
//     [RegisterCategory] and [RegisterAttributes].
//   - RowBuilder: projects a [Selection] into a [Row]; [Validate] checks the
//     required fields.
//   - RowLedger and QuotaLedger: the per-session row list and word counter.
//   - Serialize: CSV and XLSX encoding of a row set.
//   - Session: owns one operator's state and runs each action atomically.
//   - SessionStore: in-memory sessions keyed by id, expired when idle.
//
// # Export Flow
//
// [Session.Export] runs these steps under the session lock:
//
//  1. Merge the ledger snapshot with the pending row ([MergeExportSet]).
//  2. Stop with [ErrNothingToExport] if the set is empty.
//  3. Sum the word cost of every row ([TotalCost]).
//  4. Stop with [*QuotaExceededError] if the quota cannot afford it.
//  5. Serialize, then charge the quota.
//
// Either a file is produced and the quota is charged, or neither happens.
//
// # Word Cost
//
// A row costs the number of whitespace-separated tokens in its category,
// type, subtype, bearing number and application. Seal, suffix and make
// are free.
package core
