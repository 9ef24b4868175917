// Package bluechip provides the types and functions to value a personal
// investment portfolio. It is designed to be local-first and simple: the
// portfolio is a snapshot of positions, a cash balance and the capital
// invested so far, stored in plain files the user can read and edit.
//
// The core functionalities include:
//   - Portfolio State: the persisted snapshot (positions, cash, invested
//     capital) and the mutations that keep it valid (add, remove, set).
//   - Currency Normalization: every position is quoted in its native currency,
//     inferred from the ticker suffix, and converted into the single domestic
//     currency using one foreign exchange rate.
//   - Quote Gateway: the contract for market data providers (prices,
//     dividends, exchange rate) and the fetch that turns their partial,
//     possibly failing answers into a MarketSnapshot.
//   - Valuation: a stateless engine that combines State and MarketSnapshot
//     into a View with per-position and aggregate metrics. Unknown market data
//     and undefined ratios are explicit values, never zeros.
//   - Data Persistence: a Store contract and a flat file implementation
//     (one CSV table and two single-number files).
//
// This package serves as the foundational logic for the `bcp` command-line
// tool and its web dashboard.
package bluechip
