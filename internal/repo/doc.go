// Package repo keeps the powdir under version control.
//
// Provider is what the workspace needs from a repository: create or clone
// one, stage and unstage paths, and commit. Git implements it on go-git
// without shelling out to a git binary.
package repo
