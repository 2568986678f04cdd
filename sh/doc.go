// Package sh is the short way to build pipelines.
//
// Commands are located lazily through a resolve.Resolver when they first run,
// and stages are joined with Pipe:
//
//	res, err := sh.Pipe(
//		sh.Cmd("echo", "1:2:3"),
//		sh.Cmd("rev"),
//		sh.Cmd("cut", "-d", ":", "-f", "1"),
//	).Run(ctx, nil)
//	fmt.Print(res.StdoutText()) // "3\n"
//
// Go functions can stand in for any stage:
//
//	split := sh.Text(func(ctx context.Context, in *string) (*exec.Result, error) {
//		return &exec.Result{Stdout: exec.Text("i:ii:iii")}, nil
//	})
//	res, err := sh.Pipe(split, sh.Cmd("rev")).Run(ctx, nil) // "iii:ii:i"
//
// Every unit runs once; build a new pipeline for each run.
package sh
