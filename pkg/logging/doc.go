// Package logging configures m8db's diagnostic logger.
//
// Diagnostics go through zerolog to stderr and to a file in the XDG state
// directory. They are unrelated to a database's audit log, which is written
// by pkg/auditlog in its own fixed format.
package logging
