// Package models defines domain entities and persistence interfaces for the rollcall attendance service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing per-run data
//   - [Member] : Guild membership snapshot entry from the chat service
//   - [Attendee] : Roster entry parsed from the registration CSV
//   - [MatchResult] : Outcome of matching one attendee against the member list
//   - [MissingReport] : Missing attendees bucketed by group
//
// 2. Persistent Entities: Database-backed models
//   - [PersistedMember] : Cached guild members for offline matching runs
//
// Persistent entities implement the Model interface providing ID access, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
