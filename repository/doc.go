// Package repository provides data access for companies and jobs on top of
// Bun: a generic CRUD/pagination base plus entity repositories that build
// dynamic partial updates and filtered listings with positional parameters.
package repository
