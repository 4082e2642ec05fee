// Package ceibadl mirrors courses from the NTU CEIBA course portal to local,
// offline-browsable directory trees. It logs in, lists enrolled courses, and
// for each course downloads the homepage frameset, banner, navigation panel,
// linked stylesheets, and every enabled module page, rewriting frame and
// navigation links so the copy works without the portal.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, sqlite/).
package ceibadl
