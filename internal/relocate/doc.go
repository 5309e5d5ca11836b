// Package relocate implements the one-pass batch tools that reorganize
// portfolio content documents and their images into category directories.
//
// Every tool works on a billy.Filesystem rooted at the project root, so the
// same code runs on the working tree (osfs or a git worktree) and on memfs in
// tests. Per-item failures are collected in the tool's result and never abort
// the batch; only setup failures are returned as errors.
package relocate
