// Package integrity checks that the pieces the sync pipeline depends on agree
// with each other.
//
// # Checks Provided
//
//   - Bucket: the archive folder and the run log folder exist in the storage bucket.
//   - Archive: the archive object read by the bucket source exists.
//   - Tree: every live item directory has a book row and a record file, and every
//     book row has a directory.
//   - Schema: every catalog table has the columns (and pinned types) of its model.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/bucket : Runs the bucket check (supports ?fix=true).
//   - GET /integrity/archive : Runs the archive check.
//   - GET /integrity/tree : Runs the tree check.
//   - GET /integrity/schema : Runs the schema check.
package integrity
