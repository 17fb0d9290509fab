package statediff

import "testing"

func TestApplyReportsOnlyChanges(t *testing.T) {
	cache := NewCache()

	if !cache.Apply("Status", "playing") {
		t.Fatalf("first observation of a key did not report a change")
	}
	if cache.Apply("Status", "playing") {
		t.Fatalf("re-announcing the same value reported a change")
	}
	if !cache.Apply("Status", "paused") {
		t.Fatalf("a changed value did not report a change")
	}
	if cache.Apply("Status", "paused") {
		t.Fatalf("the updated value was not stored unconditionally")
	}
}

func TestApplyKeysAreIndependent(t *testing.T) {
	cache := NewCache()

	cache.Apply("Status", "playing")
	if !cache.Apply("Position", uint32(1000)) {
		t.Fatalf("a different key was gated by another key's value")
	}
	if cache.Apply("Status", "playing") {
		t.Fatalf("updating one key disturbed another key's cached value")
	}
}

func TestApplyNormalizesNumericWidths(t *testing.T) {
	cache := NewCache()

	cache.Apply("Position", uint32(5000))
	if cache.Apply("Position", uint64(5000)) {
		t.Fatalf("the same value at a different width reported a change")
	}
	if cache.Apply("Duration", int32(3)) != true {
		t.Fatalf("first observation did not report a change")
	}
	if cache.Apply("Duration", int64(3)) {
		t.Fatalf("int widths were not normalized")
	}
}

func TestApplyFieldsDiffsPerSubField(t *testing.T) {
	cache := NewCache()

	fields := map[string]any{
		"Title":    "one",
		"Album":    "album",
		"Duration": uint32(180000),
	}

	if !cache.ApplyFields("Track", fields) {
		t.Fatalf("first composite observation did not report a change")
	}
	if cache.ApplyFields("Track", fields) {
		t.Fatalf("an identical composite bundle reported a change")
	}

	fields["Duration"] = uint32(181000)
	if !cache.ApplyFields("Track", fields) {
		t.Fatalf("a single changed sub-field did not report a change")
	}
}

func TestApplyFieldsDoesNotCollideWithPlainKeys(t *testing.T) {
	cache := NewCache()

	cache.Apply("Track", "plain")
	if !cache.ApplyFields("Track", map[string]any{"Title": "one"}) {
		t.Fatalf("a sub-field collided with the containing key")
	}

	value, ok := cache.Value("Track")
	if !ok || value != "plain" {
		t.Fatalf("the containing key was disturbed by a sub-field write: %v", value)
	}
}

func TestSeedPrimesSilently(t *testing.T) {
	cache := NewCache()

	cache.Seed(map[string]any{"Status": "playing", "Position": uint32(0)})

	if cache.Apply("Status", "playing") {
		t.Fatalf("a seeded value reported a change on re-announcement")
	}
	if !cache.Apply("Status", "stopped") {
		t.Fatalf("a change against a seeded value was not reported")
	}
}

func TestForget(t *testing.T) {
	cache := NewCache()

	cache.Apply("Name", "player")
	cache.Forget("Name")

	if !cache.Apply("Name", "player") {
		t.Fatalf("a forgotten key did not report a change on re-observation")
	}
}
