// Package service implements the idea operations.
//
// Services take a config struct with their collaborators and define the
// interfaces they need from them, so tests can substitute hand-written
// fakes:
//
//	ideas := NewIdeaService(IdeaServiceConfig{
//	    IdeaRepo: ideaRepository,
//	    Users:    userDirectory,
//	    Events:   publisher,
//	})
//	idea, err := ideas.ToggleLike(ctx, "user:alice", ideaID)
//
// Every call to the repository or user directory runs under the
// configured operation timeout. Failures are reported with the sentinel
// errors in errors.go, or a *model.APIError for validation failures.
package service
