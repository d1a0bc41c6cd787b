// Package microcap tracks the state of a small equity portfolio over
// repeated daily runs. It is designed to be local-first and auditable:
// every run consumes a queue of externally-authored trading instructions
// exactly once, revalues the book against freshly fetched prices, and
// appends one snapshot to an append-only history.
//
// The core functionalities include:
//   - Trade Execution: applying pending orders (sell-all, trim, buy, hold)
//     sequentially to in-memory holdings and cash, never overdrawing either.
//   - Valuation: combining holdings, cash and prices into per-symbol and
//     total portfolio values with exact decimal arithmetic.
//   - Daily Deltas: comparing the current valuation against the previous
//     persisted snapshot to produce price and value change figures.
//   - Data Persistence: reading and writing the holdings, cash, order queue,
//     history and published artifact files in their stable on-disk shapes.
//
// This package serves as the foundational logic for the `mct` command-line
// tool; a run reads all state up front and writes it back in a single
// Commit, so a failure mid-run leaves the previous state intact.
package microcap
