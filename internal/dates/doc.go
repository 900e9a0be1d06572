// Package dates extracts calendar dates from scanned-document file names
// and orders files by them.
//
// Three separator-tolerant forms are recognized, tried in this order:
//
//	DD-MM-YYYY   31.12.2024, 1_2_2025
//	YYYY-MM-DD   2024-12-31, 2025.1.2
//	DD-MM-YY     31-12-24
//
// Dots and underscores are accepted in place of hyphens. Ambiguous strings
// are resolved day-first: "02-01-2025" is 2 January 2025.
//
//	t, ok := dates.Extract("invoice_02.01.2025.pdf")
//	sorted := dates.Sort(paths, true) // newest first, undated last
package dates
