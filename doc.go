// Package understory is a conservative static-safety analyzer for
// JavaScript source-to-source rewrites. Before a syntactic rewrite rule
// fires, it must prove — from tree shape alone, without executing
// anything — that the rewrite cannot change observable behavior. That
// proof work lives here.
//
// The analyzer is sound but incomplete: a "no" or "unknown"
// answer is always safe (the caller declines to transform), and a "yes"
// answer must always be correct. Nothing here folds constants, interprets
// code, or looks across files.
//
// # Queries
//
// A [Session] is created per analysis unit (one parsed file) and answers
// four families of questions:
//
//   - [Session.Classify] — can this declarator be declared immutably, or
//     does some unshadowed reassignment force it to stay mutable?
//   - [Session.ResolveAlias] — is this name provably interchangeable with
//     the single argument of the wrapper call it was initialized from?
//   - [Equivalent] — are two expression subtrees syntactically identical?
//   - [ProvablyIterable], [ProvablySearchable], [NumericLiteral] — the
//     capability oracle: does this expression shape guarantee a runtime
//     capability regardless of value?
//
// Session state (the binding catalog and the alias cache) is built lazily
// on first query and is valid for the life of the session, because the
// analyzer never mutates the tree. Callers that mutate the tree must
// start a fresh Session. Sessions are not safe for concurrent use; when
// analyzing many units in parallel, give each unit its own Session.
//
// # Rules and batch analysis
//
// [AnalyzeUnit] runs the built-in rule catalog (prefer-const,
// indexof-to-includes, unwrap-alias) over one unit; each rule consults
// the analyzer and emits a [Finding] only when the proof succeeds.
// [Engine] scales this to a repository: file discovery, content-hash
// change detection, a worker pool with one Session per unit, and a
// SQLite findings store.
//
// # Usage
//
//	e, err := understory.New("findings.db")
//	if err != nil { ... }
//	defer e.Close()
//
//	err = e.AnalyzeDirectory(ctx, "path/to/project")
//	findings, err := e.Findings("src/app.js")
package understory
