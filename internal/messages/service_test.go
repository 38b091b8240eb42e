package messages

import (
	"testing"

	"github.com/google/uuid"
)

func TestConversationIDIsOrderIndependent(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	if ConversationID(a, b) != ConversationID(b, a) {
		t.Fatal("conversation id must not depend on participant order")
	}
	if ConversationID(a, b) == ConversationID(a, uuid.New()) {
		t.Fatal("different pairs must get different conversation ids")
	}
}

func TestConversationIDIsStable(t *testing.T) {
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	first := ConversationID(a, b)
	second := ConversationID(a, b)
	if first != second {
		t.Fatal("conversation id must be deterministic")
	}
}
