package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/eventcast/eventcast-backend/internal/common"
	"github.com/eventcast/eventcast-backend/internal/domain"
	"github.com/eventcast/eventcast-backend/internal/repository"
	"github.com/eventcast/eventcast-backend/pkg/storage"
)

type fieldKind int

const (
	kindScalar fieldKind = iota
	kindRelation
	kindFile
	kindExcluded
)

// fieldResolution is the read-only outcome of resolving one field:
// whether the client requested a change, whether that change collides
// with a concurrent edit, and a deferred apply step that mutates
// nothing until the orchestrator decides the overall outcome.
type fieldResolution struct {
	changed  bool
	conflict bool
	change   *domain.FieldChange
	apply    func() error
}

// editContext carries transaction-bound repositories and the three
// views of the event a resolver compares: current (fresh from the
// database inside the transaction), baseline (what the client was
// shown), and submitted (what the client wants now).
type editContext struct {
	ctx      context.Context
	event    *domain.Event
	req      *domain.EventEditRequest
	baseline *domain.EventSnapshot

	events   repository.EventRepository
	tags     repository.TagRepository
	channels repository.ChannelRepository
	pictures repository.PictureRepository
	uploader Uploader

	eventDirty bool
}

// fieldDescriptor declares everything the engine knows about one
// editable field: how to resolve an edit against it and how to render
// it for revision comparison. Dispatch iterates the table; no field
// is special-cased by name anywhere else.
type fieldDescriptor struct {
	Key   string
	Label string
	Kind  fieldKind

	resolve      func(ec *editContext) (*fieldResolution, error)
	fromRevision func(rev *domain.EventRevision) string
	fromEvent    func(event *domain.Event) string
}

// fieldTable is the full, fixed set of fields the edit form may
// change, in display order. event_id rides along in the snapshot but
// is excluded from diffing and conflict detection.
var fieldTable = []fieldDescriptor{
	scalarField("title", "Title",
		func(e *domain.Event) string { return e.Title },
		func(s *domain.EventSnapshot) string { return s.Title },
		func(r *domain.EventEditRequest) string { return r.Title },
		func(e *domain.Event, v string) { e.Title = v },
		func(rev *domain.EventRevision) string { return rev.Title },
	),
	placeholderField(),
	pictureField(),
	scalarField("description", "Description",
		func(e *domain.Event) string { return e.Description },
		func(s *domain.EventSnapshot) string { return s.Description },
		func(r *domain.EventEditRequest) string { return r.Description },
		func(e *domain.Event, v string) { e.Description = v },
		func(rev *domain.EventRevision) string { return rev.Description },
	),
	scalarField("short_description", "Short description",
		func(e *domain.Event) string { return e.ShortDescription },
		func(s *domain.EventSnapshot) string { return s.ShortDescription },
		func(r *domain.EventEditRequest) string { return r.ShortDescription },
		func(e *domain.Event, v string) { e.ShortDescription = v },
		func(rev *domain.EventRevision) string { return rev.ShortDescription },
	),
	channelsField(),
	tagsField(),
	scalarField("call_info", "Call info",
		func(e *domain.Event) string { return e.CallInfo },
		func(s *domain.EventSnapshot) string { return s.CallInfo },
		func(r *domain.EventEditRequest) string { return r.CallInfo },
		func(e *domain.Event, v string) { e.CallInfo = v },
		func(rev *domain.EventRevision) string { return rev.CallInfo },
	),
	scalarField("additional_links", "Additional links",
		func(e *domain.Event) string { return e.AdditionalLinks },
		func(s *domain.EventSnapshot) string { return s.AdditionalLinks },
		func(r *domain.EventEditRequest) string { return r.AdditionalLinks },
		func(e *domain.Event, v string) { e.AdditionalLinks = v },
		func(rev *domain.EventRevision) string { return rev.AdditionalLinks },
	),
	{Key: "event_id", Label: "Event ID", Kind: kindExcluded},
}

// scalarField builds a descriptor for a plain string column: changed
// iff submitted != baseline, conflicting iff baseline != current.
func scalarField(
	key, label string,
	fromEvent func(*domain.Event) string,
	fromSnapshot func(*domain.EventSnapshot) string,
	fromRequest func(*domain.EventEditRequest) string,
	assign func(*domain.Event, string),
	fromRevision func(*domain.EventRevision) string,
) fieldDescriptor {
	return fieldDescriptor{
		Key:          key,
		Label:        label,
		Kind:         kindScalar,
		fromRevision: fromRevision,
		fromEvent:    fromEvent,
		resolve: func(ec *editContext) (*fieldResolution, error) {
			baseline := fromSnapshot(ec.baseline)
			submitted := fromRequest(ec.req)
			if submitted == baseline {
				return &fieldResolution{}, nil
			}

			current := fromEvent(ec.event)
			return &fieldResolution{
				changed:  true,
				conflict: baseline != current,
				change:   &domain.FieldChange{From: baseline, To: submitted},
				apply: func() error {
					assign(ec.event, submitted)
					ec.eventDirty = true
					return nil
				},
			}, nil
		},
	}
}

func pictureField() fieldDescriptor {
	return fieldDescriptor{
		Key:   "picture",
		Label: "Picture",
		Kind:  kindScalar,
		fromRevision: func(rev *domain.EventRevision) string {
			return renderPictureID(rev.PictureID)
		},
		fromEvent: func(e *domain.Event) string {
			return renderPictureID(e.PictureID)
		},
		resolve: func(ec *editContext) (*fieldResolution, error) {
			if uintPtrEqual(ec.req.Picture, ec.baseline.Picture) {
				return &fieldResolution{}, nil
			}
			if ec.req.Picture != nil {
				if _, err := ec.pictures.FindByID(*ec.req.Picture); err != nil {
					return nil, err
				}
			}

			return &fieldResolution{
				changed:  true,
				conflict: !uintPtrEqual(ec.baseline.Picture, ec.event.PictureID),
				change:   &domain.FieldChange{From: ec.baseline.Picture, To: ec.req.Picture},
				apply: func() error {
					ec.event.PictureID = ec.req.Picture
					ec.eventDirty = true
					return nil
				},
			}, nil
		},
	}
}

// placeholderSavedMarker stands in for the uploaded blob in a diff
// entry; the upload has no comparable value of its own
const placeholderSavedMarker = "__saved__event_placeholder_img"

func placeholderField() fieldDescriptor {
	return fieldDescriptor{
		Key:   "placeholder_img",
		Label: "Placeholder image",
		Kind:  kindFile,
		fromRevision: func(rev *domain.EventRevision) string {
			return rev.PlaceholderImg
		},
		fromEvent: func(e *domain.Event) string {
			return e.PlaceholderImg
		},
		resolve: func(ec *editContext) (*fieldResolution, error) {
			// presence check, not value equality: the upload is a new
			// blob, there is nothing to compare it against
			if ec.req.PlaceholderImg == nil {
				return &fieldResolution{}, nil
			}

			var from string
			if ec.baseline.PlaceholderImg != nil {
				from = *ec.baseline.PlaceholderImg
			}

			current := currentPlaceholderValue(ec.event, true)
			return &fieldResolution{
				changed:  true,
				conflict: !strPtrEqual(ec.baseline.PlaceholderImg, current),
				change:   &domain.FieldChange{From: from, To: placeholderSavedMarker},
				apply: func() error {
					url, err := uploadPlaceholder(ec.ctx, ec.uploader, ec.req)
					if err != nil {
						return err
					}
					ec.event.PlaceholderImg = url
					ec.eventDirty = true
					return nil
				},
			}, nil
		},
	}
}

// currentPlaceholderValue resolves the authoritative live value of
// the placeholder field: when a picture is selected and no new upload
// came in, the picture's file wins over the stored placeholder.
func currentPlaceholderValue(event *domain.Event, hasUpload bool) *string {
	if event.Picture != nil && !hasUpload {
		return &event.Picture.File
	}
	if event.PlaceholderImg != "" {
		v := event.PlaceholderImg
		return &v
	}
	return nil
}

func uploadPlaceholder(ctx context.Context, uploader Uploader, req *domain.EventEditRequest) (string, error) {
	if uploader == nil {
		return "", fmt.Errorf("placeholder upload requires storage to be configured")
	}

	file, err := req.PlaceholderImg.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded placeholder: %w", err)
	}
	defer file.Close()

	key := storage.GenerateKey("placeholders", req.PlaceholderImg.Filename)
	contentType := req.PlaceholderImg.Header.Get("Content-Type")
	result, err := uploader.Upload(ctx, key, file, contentType, req.PlaceholderImg.Size)
	if err != nil {
		return "", err
	}
	if result.CDNURL != "" {
		return result.CDNURL, nil
	}
	return result.URL, nil
}

func channelsField() fieldDescriptor {
	return fieldDescriptor{
		Key:   "channels",
		Label: "Channels",
		Kind:  kindRelation,
		fromRevision: func(rev *domain.EventRevision) string {
			return rev.Channels
		},
		fromEvent: func(e *domain.Event) string {
			names := make([]string, len(e.Channels))
			for i, ch := range e.Channels {
				names[i] = ch.Name
			}
			return sortedJoin(names)
		},
		resolve: func(ec *editContext) (*fieldResolution, error) {
			if uintSetEqual(ec.req.Channels, ec.baseline.Channels) {
				return &fieldResolution{}, nil
			}

			submitted, err := ec.channels.FindByIDs(uniqueUints(ec.req.Channels))
			if err != nil {
				return nil, err
			}
			if len(submitted) != len(uniqueUints(ec.req.Channels)) {
				return nil, common.ErrChannelNotFound
			}
			baseline, err := ec.channels.FindByIDs(ec.baseline.Channels)
			if err != nil {
				return nil, err
			}

			currentIDs, err := ec.events.ChannelIDs(ec.event.ID)
			if err != nil {
				return nil, err
			}

			return &fieldResolution{
				changed:  true,
				conflict: !uintSetEqual(ec.baseline.Channels, currentIDs),
				change: &domain.FieldChange{
					From: sortedJoin(channelNames(baseline)),
					To:   sortedJoin(channelNames(submitted)),
				},
				apply: func() error {
					return ec.events.ReplaceChannels(ec.event, submitted)
				},
			}, nil
		},
	}
}

func tagsField() fieldDescriptor {
	return fieldDescriptor{
		Key:   "tags",
		Label: "Tags",
		Kind:  kindRelation,
		fromRevision: func(rev *domain.EventRevision) string {
			return rev.Tags
		},
		fromEvent: func(e *domain.Event) string {
			names := make([]string, len(e.Tags))
			for i, t := range e.Tags {
				names[i] = t.Name
			}
			return sortedJoin(names)
		},
		resolve: resolveTags,
	}
}

// resolveTags matches submitted names against existing tags without
// creating anything; tag creation is deferred to the apply step so a
// conflicting edit leaves no trace.
func resolveTags(ec *editContext) (*fieldResolution, error) {
	baselineTags, err := ec.tags.FindByIDs(ec.baseline.Tags)
	if err != nil {
		return nil, err
	}
	baselineNames := make([]string, len(baselineTags))
	for i, t := range baselineTags {
		baselineNames[i] = t.Name
	}

	// resolved holds matched tags with their stored casing; toCreate
	// keeps the submitted casing for names no existing tag matches
	var resolved []domain.Tag
	var toCreate []string
	var toNames []string
	seen := map[string]bool{}
	for _, name := range ec.req.Tags {
		name = strings.TrimSpace(name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		tag, err := ec.tags.FindByNameFold(name)
		switch {
		case err == nil:
			resolved = append(resolved, *tag)
			toNames = append(toNames, tag.Name)
		case errors.Is(err, common.ErrTagNotFound):
			toCreate = append(toCreate, name)
			toNames = append(toNames, name)
		default:
			return nil, err
		}
	}

	if stringSetEqual(baselineNames, toNames) {
		return &fieldResolution{}, nil
	}

	currentIDs, err := ec.events.TagIDs(ec.event.ID)
	if err != nil {
		return nil, err
	}

	return &fieldResolution{
		changed:  true,
		conflict: !uintSetEqual(ec.baseline.Tags, currentIDs),
		change: &domain.FieldChange{
			From: sortedJoin(baselineNames),
			To:   sortedJoin(toNames),
		},
		apply: func() error {
			all := resolved
			for _, name := range toCreate {
				tag := domain.Tag{Name: name}
				if err := ec.tags.Create(&tag); err != nil {
					return err
				}
				all = append(all, tag)
			}
			return ec.events.ReplaceTags(ec.event, all)
		},
	}, nil
}

// --- helpers ---

func renderPictureID(id *uint) string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%d", *id)
}

func channelNames(channels []domain.Channel) []string {
	names := make([]string, len(channels))
	for i, ch := range channels {
		names[i] = ch.Name
	}
	return names
}

// sortedJoin renders a label set the way diffs display it
func sortedJoin(names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}

func uniqueUints(ids []uint) []uint {
	seen := map[uint]bool{}
	var out []uint
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func uintSetEqual(a, b []uint) bool {
	as := map[uint]bool{}
	for _, v := range a {
		as[v] = true
	}
	bs := map[uint]bool{}
	for _, v := range b {
		bs[v] = true
	}
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if !bs[v] {
			return false
		}
	}
	return true
}

func stringSetEqual(a, b []string) bool {
	as := map[string]bool{}
	for _, v := range a {
		as[v] = true
	}
	bs := map[string]bool{}
	for _, v := range b {
		bs[v] = true
	}
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if !bs[v] {
			return false
		}
	}
	return true
}

func uintPtrEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
