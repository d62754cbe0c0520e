// Package sqlbuild generates parameterized SQL fragments: SET clauses for
// partial updates and AND-joined WHERE bodies for filtered queries. All
// identifiers come from fixed translation tables; only values are bound.
package sqlbuild
