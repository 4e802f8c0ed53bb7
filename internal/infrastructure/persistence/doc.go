// Package persistence provides database repository implementations.
// It uses GORM as the ORM layer over PostgreSQL or SQLite and owns the
// versioned schema migrations applied by the migrate startup step.
package persistence
