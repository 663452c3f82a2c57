package pairing

import (
	"testing"
)

func TestMatchByStem(t *testing.T) {
	audio := []string{"lecture01.mp3", "lecture02.wav", "extra.mp3"}
	text := []string{"lecture02.txt", "lecture01.md", "notes.txt"}

	res := Match(audio, text)

	if len(res.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(res.Pairs))
	}
	if res.Pairs[0].Stem != "lecture01" || res.Pairs[0].TextName != "lecture01.md" {
		t.Errorf("unexpected first pair: %+v", res.Pairs[0])
	}
	if res.Pairs[1].Stem != "lecture02" || res.Pairs[1].AudioName != "lecture02.wav" {
		t.Errorf("unexpected second pair: %+v", res.Pairs[1])
	}
	if len(res.OrphanedAudio) != 1 || res.OrphanedAudio[0] != "extra.mp3" {
		t.Errorf("unexpected orphaned audio: %v", res.OrphanedAudio)
	}
	if len(res.OrphanedText) != 1 || res.OrphanedText[0] != "notes.txt" {
		t.Errorf("unexpected orphaned text: %v", res.OrphanedText)
	}
}

func TestMatchFirstOccurrenceWins(t *testing.T) {
	audio := []string{"a.mp3", "a.wav"}
	text := []string{"a.txt", "a.md"}

	res := Match(audio, text)

	if len(res.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(res.Pairs))
	}
	if res.Pairs[0].AudioName != "a.mp3" || res.Pairs[0].TextName != "a.txt" {
		t.Errorf("expected first occurrences to pair, got %+v", res.Pairs[0])
	}
	if len(res.OrphanedAudio) != 1 || res.OrphanedAudio[0] != "a.wav" {
		t.Errorf("unexpected orphaned audio: %v", res.OrphanedAudio)
	}
	if len(res.OrphanedText) != 1 || res.OrphanedText[0] != "a.md" {
		t.Errorf("unexpected orphaned text: %v", res.OrphanedText)
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	res := Match(nil, nil)
	if len(res.Pairs) != 0 || len(res.OrphanedAudio) != 0 || len(res.OrphanedText) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestStemStripsDirectoryAndExtension(t *testing.T) {
	cases := map[string]string{
		"uploads/lecture01.mp3": "lecture01",
		"lecture01.tar.gz":      "lecture01.tar",
		"noext":                 "noext",
	}
	for in, want := range cases {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}
