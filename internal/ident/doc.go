// Package ident derives method-name fragments from Go type names.
//
// A fragment is the snake_case word list of a Pascal-case type name,
// joined with underscores. Fragments name the generated visit, enter,
// and exit methods, so the splitting rules are part of the observable
// contract: acronym runs stay together, and digits always split from
// the surrounding letters.
package ident
