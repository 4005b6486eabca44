// Package budget provides the values exchanged with a PIN-protected personal
// budgeting API and the multi-currency formatting rules used to display them.
//
// The package is organised as:
//   - Records: immutable server-shaped values (categories, transactions,
//     budgets, recurring rules, goals, bank connections...) identified by a
//     server-assigned integer id. The client never creates ids.
//   - Currencies: the closed set of supported currencies, each with a fixed
//     locale descriptor, and a deterministic formatter for amounts.
//   - Exchange rates: the provider snapshot reported by the server and the
//     conversion between supported currencies.
//
// The transport lives in the api package, the reactive state in the store
// package, and the budgetctl command line tool in cmd.
package budget
