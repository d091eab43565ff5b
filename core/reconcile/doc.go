// Package reconcile provides the generic set algorithms used to bring a
// relational mirror in line with a freshly published source.
//
// # Key Sets
//
// Diff and BuildPlan compare the keys of a staged tree with the keys of the live
// tree. The stale set (live minus staged) drives pruning; added and kept counts are
// logged and reported by dry runs.
//
// # Full Replace
//
// ReplaceRelation is used for membership links that carry no identity of their own
// (authors, editors, translators, bookshelves, languages, subjects). Every value is
// resolved to a shared entity through an insert-or-get Resolver, then the owner's
// entire link set is replaced by the resolved set.
//
// # Diff and Prune
//
// SyncChildren is used for rows owned by exactly one parent (formats, summaries).
// Rows matching a current value by key keep their identifier, missing values are
// created, and rows no longer represented are deleted.
//
// The two policies are intentionally separate: only SyncChildren guarantees that an
// unchanged row keeps its identifier across runs.
//
// # Usage Example
//
//	linked, err := reconcile.ReplaceRelation(ctx, bookID, rec.Subjects, tx.ResolveSubject, tx.Linker(models.RelationSubjects))
//
//	outcome, err := reconcile.SyncChildren(ctx, bookID, rec.FormatList(), reconcile.ChildSet[record.Format]{
//	    Key:    record.Format.Key,
//	    List:   tx.ListFormats,
//	    Create: tx.CreateFormat,
//	    Delete: tx.DeleteFormats,
//	})
package reconcile
