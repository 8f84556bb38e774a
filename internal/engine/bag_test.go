package engine

import "testing"

func TestBagStartsWithFullDistribution(t *testing.T) {
	b := NewBag(1)
	want := 0
	for _, n := range letterCounts {
		want += n
	}
	if b.Remaining() != want {
		t.Fatalf("want %d tiles, got %d", want, b.Remaining())
	}
}

func TestBagDrawShortOnDepletion(t *testing.T) {
	b := NewBag(1)
	total := b.Remaining()

	first := b.Draw(total - 3)
	if len(first) != total-3 {
		t.Fatalf("want %d tiles, got %d", total-3, len(first))
	}
	// Depletion yields a short draw, never an error.
	rest := b.Draw(RackSize)
	if len(rest) != 3 {
		t.Fatalf("want short draw of 3, got %d", len(rest))
	}
	if got := b.Draw(RackSize); len(got) != 0 {
		t.Fatalf("empty bag should draw nothing, got %d", len(got))
	}
}

func TestBagReturnRestoresTiles(t *testing.T) {
	b := NewBag(1)
	total := b.Remaining()
	drawn := b.Draw(RackSize)
	b.Return(drawn)
	if b.Remaining() != total {
		t.Fatalf("want %d after return, got %d", total, b.Remaining())
	}
}

func TestTileValuesCarried(t *testing.T) {
	b := NewBag(1)
	for _, tile := range b.Draw(20) {
		if tile.Value != LetterValue(tile.Letter) {
			t.Fatalf("tile %q carries value %d, want %d", tile.Letter, tile.Value, LetterValue(tile.Letter))
		}
	}
}
