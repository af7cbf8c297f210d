// ABOUTME: Tests for identity propagation via context
// ABOUTME: Covers WithIdentity/FromContext/MustFromContext behavior

package auth

import (
	"context"
	"testing"
)

func TestFromContext_Empty(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("FromContext() = %+v, want nil", got)
	}
}

func TestWithIdentity_RoundTrip(t *testing.T) {
	identity := &Identity{ID: 1, Username: "ada", Email: "ada@x.com", Role: RoleAdmin}
	ctx := WithIdentity(context.Background(), identity)

	got := FromContext(ctx)
	if got != identity {
		t.Errorf("FromContext() = %+v, want same identity", got)
	}
}

func TestMustFromContext_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustFromContext() should panic on empty context")
		}
	}()
	MustFromContext(context.Background())
}
