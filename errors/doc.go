// Package errors provides the structured error type shared by the shell packages.
//
// Every failure that aborts a run (a command that cannot be resolved, a process
// that cannot be spawned, a malformed manifest) is reported as a PlatformError
// carrying an ErrorCode, a retry classification and optional context. A non-zero
// exit status is never an error; it is part of the run's result.
//
// The package stays compatible with the standard library (errors.Is, errors.As,
// errors.Unwrap):
//
//	res, err := sh.Cmd("ls65535").Run(ctx, nil)
//	if errors.GetCode(err) == errors.CodeCommandNotFound {
//	    // the name did not resolve on PATH
//	}
//
// Context metadata is attached immutably:
//
//	err = errors.WithContext(err, "stage", "rev")
//
// ToJSON renders any error into a flat ErrorResponse for machine consumers such
// as the shrun CLI's --json mode.
package errors
