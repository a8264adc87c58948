package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind error
		msg  string
	}{
		{Validationf("title is required"), ErrValidation, "title is required"},
		{NotFoundf("task not found"), ErrNotFound, "task not found"},
		{NotAuthorizedf("not the assignee"), ErrNotAuthorized, "not the assignee"},
		{InvalidTransitionf("cannot %s", "complete"), ErrInvalidTransition, "cannot complete"},
		{DuplicateKeyf("email taken"), ErrDuplicateKey, "email taken"},
		{Unauthenticatedf("token expired"), ErrUnauthenticated, "token expired"},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.kind) {
			t.Fatalf("expected %v to be %v", tc.err, tc.kind)
		}
		if got := Message(tc.err); got != tc.msg {
			t.Fatalf("expected message %q, got %q", tc.msg, got)
		}
	}
}

func TestStoreErrorHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("create task: %w", Store("insert task failed", cause))

	if !errors.Is(err, ErrStore) || !errors.Is(err, cause) {
		t.Fatalf("expected both kind and cause to be reachable: %v", err)
	}
	if got := Message(err); got != "insert task failed" {
		t.Fatalf("expected driver detail to be hidden, got %q", got)
	}
}
