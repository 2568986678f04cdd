// Package resolve turns command names into executable paths.
//
// A Resolver asks a Lookup (by default `/bin/sh -l -c "which <name>"`) for
// the path of a command and remembers the answer in a Cache, so each name is
// looked up at most once per cache. Resolvers plug into exec.NewCommand
// through Locator, under one of two policies:
//
//   - Cached: the process is spawned from the resolved absolute path.
//   - Uncached: the process is spawned through a launcher (`/usr/bin/env`)
//     that searches PATH itself on every run.
//
// Both policies report a missing command as COMMAND_NOT_FOUND.
//
//	r := resolve.New()
//	p := exec.NewCommand("rev", r.Locator(resolve.Cached))
//	res, err := p.Run(ctx, nil)
package resolve
