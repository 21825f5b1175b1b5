// Package storage implements ports.KeyValueStore on top of an in-process map,
// an embedded Badger database, or a SQLite file.
//
// The driver is picked by configuration:
//
//	kv, err := storage.Open(storage.Config{Driver: "badger", Path: "data/quotes"}, logger)
//
// Session-scoped values always use NewMemory.
package storage
