package app

import (
	"sync"
	"testing"
	"time"
)

func TestJournalNumbersAndTrims(t *testing.T) {
	at := time.Date(2026, 2, 21, 8, 0, 0, 0, time.UTC)
	var forwarded []Severity
	j := NewJournal(2, func() time.Time { return at }, LoggerFunc(func(sev Severity, _ string) {
		forwarded = append(forwarded, sev)
	}))

	j.Log(SeverityDebug, "hidden")
	j.Log(SeverityInfo, "one")
	j.Log(SeverityWarn, "two")
	j.Log(SeverityError, "three")

	if len(forwarded) != 4 {
		t.Fatalf("expected every event forwarded, got %d", len(forwarded))
	}
	entries := j.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 retained entries, got %d", len(entries))
	}
	if entries[0].String() != "[2] two" || entries[1].String() != "[3] three" {
		t.Fatalf("unexpected entries %v", entries)
	}
	last, ok := j.Last()
	if !ok || last.Severity != SeverityError || !last.At.Equal(at) {
		t.Fatalf("unexpected last entry %#v", last)
	}
}

func TestJournalEmptyAndNil(t *testing.T) {
	var nilJournal *Journal
	nilJournal.Log(SeverityInfo, "dropped")
	if _, ok := nilJournal.Last(); ok {
		t.Fatal("expected nil journal to be empty")
	}
	j := NewJournal(0, nil, nil)
	if _, ok := j.Last(); ok {
		t.Fatal("expected empty journal")
	}
}

func TestJournalConcurrentLog(t *testing.T) {
	j := NewJournal(1000, nil, nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 25; k++ {
				j.Log(SeverityInfo, "tick")
			}
		}()
	}
	wg.Wait()
	entries := j.Entries()
	if len(entries) != 200 || entries[len(entries)-1].Seq != 200 {
		t.Fatalf("expected 200 numbered entries, got %d", len(entries))
	}
}
