// Package repository persists the catalog through gorm.
//
// Store is the write side used by the sync pipeline: book upserts, atomic
// insert-or-get of shared entities on their unique natural key, link table
// replacement, owned row listing and deletion, and sync run bookkeeping.
// GormRepository implements Store and adds the read queries of the HTTP API.
package repository
