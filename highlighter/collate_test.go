package highlighter

import (
	"reflect"
	"testing"
)

func TestCollatePadsToLongestWindow(t *testing.T) {
	windows := []TokenWindow{
		{
			IDs:           []int64{101, 10, 11, 102},
			TypeIDs:       []int64{0, 1, 1, 1},
			AttentionMask: []int64{1, 1, 1, 1},
			SentenceIDs:   []int{NoSentence, 0, 0, NoSentence},
		},
		{
			IDs:           []int64{101, 12, 102},
			TypeIDs:       []int64{0, 1, 1},
			AttentionMask: []int64{1, 1, 1},
			SentenceIDs:   []int{NoSentence, 1, NoSentence},
		},
	}
	b := Collate(windows)
	if b.SeqLen != 4 {
		t.Fatalf("seq len = %d, want 4", b.SeqLen)
	}
	if !reflect.DeepEqual(b.IDs[1], []int64{101, 12, 102, 0}) {
		t.Errorf("padded ids = %v", b.IDs[1])
	}
	if !reflect.DeepEqual(b.TypeIDs[1], []int64{0, 1, 1, 0}) {
		t.Errorf("padded type ids = %v", b.TypeIDs[1])
	}
	if !reflect.DeepEqual(b.AttentionMask[1], []int64{1, 1, 1, 0}) {
		t.Errorf("padded attention mask = %v", b.AttentionMask[1])
	}
	if !reflect.DeepEqual(b.SentenceIDs[1], []int{NoSentence, 1, NoSentence, NoSentence}) {
		t.Errorf("padded sentence ids = %v", b.SentenceIDs[1])
	}
}

func TestCollateEmpty(t *testing.T) {
	b := Collate(nil)
	if b.SeqLen != 0 || len(b.IDs) != 0 {
		t.Fatalf("empty collate: seq len %d, %d rows", b.SeqLen, len(b.IDs))
	}
}
