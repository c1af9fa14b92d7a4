// Package store implements m8db's single-file JSON key-value store.
//
// A Store owns one document file and one audit log. Every operation is a
// self-contained cycle: load the whole document from disk, act on it in memory,
// write the whole document back when it changed, then append one line to the
// audit log describing the outcome. Nothing is cached between calls, so a Store
// opened on an existing file sees exactly what is on disk.
//
// Expected outcomes are returned as coded errors:
//
//	KEY_CONFLICT   Create on a key that already exists
//	KEY_NOT_FOUND  Update or Delete on a missing key
//	IO_FAILURE     the document or log could not be read, parsed or written
//
// A read of a missing key is not an error; Read reports it through Entry.Found.
//
// Concurrency: the read-modify-write cycle is serialised by a mutex shared by all
// Stores in the process that point at the same document path. There is no
// cross-process locking; two processes writing the same file can still lose
// updates.
package store
