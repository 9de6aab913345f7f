package wsutil

import "testing"

func TestSafeSend(t *testing.T) {
	ch := make(chan []byte, 1)
	if !SafeSend(ch, []byte("a")) {
		t.Fatal("expected first send to succeed")
	}
	if SafeSend(ch, []byte("b")) {
		t.Error("expected send on a full channel to be skipped")
	}
	if got := string(<-ch); got != "a" {
		t.Errorf("got %q, want a", got)
	}

	close(ch)
	if SafeSend(ch, []byte("c")) {
		t.Error("expected send on a closed channel to report false")
	}
}
