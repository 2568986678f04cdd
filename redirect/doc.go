// Package redirect provides pipeline stages that read from and write to files.
//
// Stages work on any go-billy filesystem, so the same pipeline can target the
// local disk or an in-memory filesystem in tests:
//
//	fsys := redirect.NewLocal("/tmp")
//	p := sh.Pipe(sh.Cmd("ls", "-la"), redirect.ToFile(fsys, "listing.txt"))
//
// FromFile starts a pipeline with a file's contents. ToFile truncates its
// target and AppendFile appends to it; both consume their input and print
// nothing. Tee writes like ToFile and also forwards its input downstream.
package redirect
