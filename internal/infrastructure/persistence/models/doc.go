// Package models contains the GORM database models for users, tasks,
// comments, time logs, attachments and applied schema migrations. Models
// are an infrastructure concern and convert to and from domain entities
// through ToDomain and FromDomain.
package models
