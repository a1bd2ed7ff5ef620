// Package table defines the in-memory tabular shape shared by every
// reader, the join engine and every writer.
//
// A Table is an ordered list of column names plus an ordered slice of rows.
// Every row carries exactly the table's column set; New enforces this and
// normalizes cell values to a small set of comparable scalar types so that
// join keys can be compared with ==.
//
// The Golden Rule: pkg/table imports ONLY stdlib.
package table
