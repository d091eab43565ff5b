// Package sync mirrors the published RDF catalog into the live record tree and
// the relational catalog.
//
// # Pipeline
//
// An Orchestrator run walks a fixed sequence of states:
//
//	Idle -> Acquiring -> VerifyingSize -> Extracting -> VerifyingCount -> Diffing
//	     -> Pruning -> Materializing -> Reconciling -> CleaningUp -> Done
//
// Any failure moves the run to Failed, removes the staging root and returns a
// *StageError. Failures before Reconciling are Retryable: the live tree and the
// catalog are still consistent and the next run starts over. A Reconciling failure
// is Fatal because the items reconciled before it are already committed.
//
// # Stages
//
//   - Acquirer fetches the bundle through a Transfer (HTTP with resume, local file
//     or object bucket), retrying with a fixed delay and rejecting undersized files.
//   - Extractor unpacks tar (bzip2, gzip, zstd, brotli) or zip bundles and checks
//     the number of extracted item directories.
//   - DirectoryDiffer compares staged and live item directories.
//   - Pruner deletes stale books and then their directories.
//   - Materializer mirrors the staged items over the live tree.
//   - Reconciler stores every live record, one transaction per item.
//
// Every run is recorded as a models.SyncRun row updated on each state change.
// A dry run stops after Diffing and only reports the plan.
package sync
