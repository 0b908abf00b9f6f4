package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eventcast/eventcast-backend/internal/domain"
)

func TestFieldTable_Shape(t *testing.T) {
	seen := map[string]bool{}
	for i := range fieldTable {
		desc := &fieldTable[i]
		assert.False(t, seen[desc.Key], "duplicate field key %q", desc.Key)
		seen[desc.Key] = true

		if desc.Kind == kindExcluded {
			continue
		}
		assert.NotNil(t, desc.resolve, "field %q has no resolver", desc.Key)
		assert.NotNil(t, desc.fromRevision, "field %q cannot render from a revision", desc.Key)
		assert.NotNil(t, desc.fromEvent, "field %q cannot render from the live event", desc.Key)
		assert.NotEmpty(t, desc.Label, "field %q has no display label", desc.Key)
	}

	// event_id rides along in the snapshot but is never diffed
	assert.True(t, seen["event_id"])
	for i := range fieldTable {
		if fieldTable[i].Key == "event_id" {
			assert.Equal(t, kindExcluded, fieldTable[i].Kind)
		}
	}
}

func TestFieldTable_RelationRendering(t *testing.T) {
	event := &domain.Event{
		Tags:     []domain.Tag{{ID: 2, Name: "video"}, {ID: 1, Name: "launch"}},
		Channels: []domain.Channel{{ID: 2, Name: "Tech Talks"}, {ID: 1, Name: "Main"}},
	}
	rev := &domain.EventRevision{Tags: "launch, video", Channels: "Main, Tech Talks"}

	for i := range fieldTable {
		desc := &fieldTable[i]
		switch desc.Key {
		case "tags":
			assert.Equal(t, "launch, video", desc.fromEvent(event))
			assert.Equal(t, "launch, video", desc.fromRevision(rev))
		case "channels":
			assert.Equal(t, "Main, Tech Talks", desc.fromEvent(event))
			assert.Equal(t, "Main, Tech Talks", desc.fromRevision(rev))
		}
	}
}

func TestScalarField_Resolve(t *testing.T) {
	event := &domain.Event{Title: "Current"}
	desc := fieldTable[0] // title

	tests := []struct {
		name      string
		baseline  string
		submitted string
		changed   bool
		conflict  bool
	}{
		{"unchanged", "Current", "Current", false, false},
		{"clean change", "Current", "New", true, false},
		{"stale baseline", "Old", "New", true, true},
		{"untouched despite drift", "Old", "Old", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec := &editContext{
				event:    event,
				baseline: &domain.EventSnapshot{Title: tt.baseline},
				req:      &domain.EventEditRequest{Title: tt.submitted},
			}
			res, err := desc.resolve(ec)
			assert.NoError(t, err)
			assert.Equal(t, tt.changed, res.changed)
			assert.Equal(t, tt.conflict, res.conflict)
		})
	}
}

func TestScalarField_ApplyDefersMutation(t *testing.T) {
	event := &domain.Event{Title: "Current"}
	ec := &editContext{
		event:    event,
		baseline: &domain.EventSnapshot{Title: "Current"},
		req:      &domain.EventEditRequest{Title: "New"},
	}

	res, err := fieldTable[0].resolve(ec)
	assert.NoError(t, err)

	// resolution alone mutates nothing
	assert.Equal(t, "Current", event.Title)
	assert.False(t, ec.eventDirty)

	assert.NoError(t, res.apply())
	assert.Equal(t, "New", event.Title)
	assert.True(t, ec.eventDirty)
}

func TestCurrentPlaceholderValue(t *testing.T) {
	picture := &domain.Picture{File: "gallery/cover.png"}

	tests := []struct {
		name      string
		event     *domain.Event
		hasUpload bool
		want      *string
	}{
		{"nothing set", &domain.Event{}, false, nil},
		{"placeholder only", &domain.Event{PlaceholderImg: "ph.png"}, false, strPtr("ph.png")},
		{"picture wins without upload", &domain.Event{Picture: picture, PlaceholderImg: "ph.png"}, false, strPtr("gallery/cover.png")},
		{"upload ignores picture", &domain.Event{Picture: picture, PlaceholderImg: "ph.png"}, true, strPtr("ph.png")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := currentPlaceholderValue(tt.event, tt.hasUpload)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestSortedJoin(t *testing.T) {
	assert.Equal(t, "", sortedJoin(nil))
	assert.Equal(t, "a", sortedJoin([]string{"a"}))
	assert.Equal(t, "a, b, c", sortedJoin([]string{"c", "a", "b"}))

	// input order is preserved for the caller
	in := []string{"c", "a"}
	sortedJoin(in)
	assert.Equal(t, []string{"c", "a"}, in)
}

func TestUintSetEqual(t *testing.T) {
	assert.True(t, uintSetEqual(nil, nil))
	assert.True(t, uintSetEqual([]uint{1, 2}, []uint{2, 1}))
	assert.True(t, uintSetEqual([]uint{1, 1, 2}, []uint{2, 1}))
	assert.False(t, uintSetEqual([]uint{1, 2}, []uint{1}))
	assert.False(t, uintSetEqual([]uint{1}, []uint{2}))
}

func TestStringSetEqual(t *testing.T) {
	assert.True(t, stringSetEqual(nil, nil))
	assert.True(t, stringSetEqual([]string{"a", "b"}, []string{"b", "a"}))
	assert.False(t, stringSetEqual([]string{"a"}, []string{"A"}))
}

func TestUniqueUints(t *testing.T) {
	assert.Nil(t, uniqueUints(nil))
	assert.Equal(t, []uint{3, 1, 2}, uniqueUints([]uint{3, 1, 3, 2, 1}))
}

func TestUintPtrEqual(t *testing.T) {
	a, b := uint(1), uint(1)
	c := uint(2)
	assert.True(t, uintPtrEqual(nil, nil))
	assert.True(t, uintPtrEqual(&a, &b))
	assert.False(t, uintPtrEqual(&a, &c))
	assert.False(t, uintPtrEqual(&a, nil))
	assert.False(t, uintPtrEqual(nil, &a))
}

func TestRenderPictureID(t *testing.T) {
	id := uint(12)
	assert.Equal(t, "", renderPictureID(nil))
	assert.Equal(t, "12", renderPictureID(&id))
}

func strPtr(s string) *string { return &s }
