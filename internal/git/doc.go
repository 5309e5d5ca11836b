// Package git moves and removes files through a go-git worktree so that
// relocating tracked portfolio content shows up as renames in the index
// instead of an unrelated delete and add.
//
// Files that are not tracked are moved with plain filesystem operations.
package git
