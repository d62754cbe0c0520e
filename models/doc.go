// Package models defines the Company and Job entities, their partial-update
// and filter types, and the public-name to column translation tables.
package models
