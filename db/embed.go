// Package db embeds the database schema applied on startup.
package db

import _ "embed"

// Schema contains the DDL for the storefront core tables: sections, products,
// print sizes, discount rules, and orders.
//
//go:embed migrations/001_schema.sql
var Schema string
