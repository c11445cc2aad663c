// Package models defines the core domain models for finboard.
//
// # Models
//
//   - Record: a single dated money flow (income or expense) shown on the dashboard
//   - Direction: whether a record moves money in or out of the account
//
// Records are supplied by the transactions API (here: the record store) and
// are read-only to the chart and session code.
//
// # Design Principles
//
// 1. **Plain data**: models carry no behaviour beyond validation helpers
// 2. **Exact amounts**: amounts are decimals, never floats
// 3. **IDs as strings**: UUIDs, so records can move between stores unchanged
package models
