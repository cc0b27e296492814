package understory

import "github.com/jward/understory/internal/store"

// Public type aliases for internal store types used in the Engine API.
// These are Go type aliases (=) — identical to the internal types at
// compile time. External consumers use these names; no conversion is
// needed.

type Store = store.Store
type File = store.File

// FileFinding is a stored finding row, as opposed to the in-memory
// [Finding] the rule catalog produces before positions are committed.
type FileFinding = store.Finding
