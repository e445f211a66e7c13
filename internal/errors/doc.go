// Package errors provides coded errors for the game-master service.
//
// Every layer returns *Error values carrying a Code, a caller-facing
// message and optional metadata:
//
//	err := errors.NotFound("session not found").WithMeta("session_id", id)
//
// Wrapping keeps the original code unless a new one is chosen explicitly:
//
//	if err := repo.Save(ctx, in); err != nil {
//	    return errors.Wrap(err, "failed to save game")
//	}
//
//	resp, err := client.Complete(ctx, in)
//	if err != nil {
//	    return errors.WrapWithCode(err, errors.CodeUnavailable, "model unavailable")
//	}
//
// Context cancellation and deadline errors from the standard library map to
// CodeCanceled and CodeDeadlineExceeded rather than CodeInternal.
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("character.name", input.Character.Name, vb)
//	errors.ValidateRange("character.stats.str", input.Character.Stats.Strength, 1, 30, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Transport
//
// HTTP handlers call ToHTTP to obtain the status code and JSON envelope.
// Repositories return NotFound/AlreadyExists, orchestrators return
// InvalidArgument for bad input and Unavailable when the language model
// cannot be reached.
package errors
