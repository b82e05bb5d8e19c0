package editor

import (
	"context"
	"fmt"
	"sync"

	"instituteweb/admin-console/internal"
	"instituteweb/admin-console/internal/record"
	"instituteweb/admin-console/internal/schema"
	"instituteweb/admin-console/internal/store"
	"instituteweb/admin-console/internal/upload"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// State names one node of the editing state machine.
type State string

const (
	StateIdle             State = "idle"
	StateListing          State = "listing"
	StateFormOpen         State = "form_open"
	StateConfirmingDelete State = "confirming_delete"
	StateSubmitting       State = "submitting"
	StateDeleting         State = "deleting"
)

type FormMode string

const (
	ModeCreate FormMode = "create"
	ModeEdit   FormMode = "edit"
)

// maxUploadSize caps file uploads accepted by the console (10 MB).
const maxUploadSize = 10 << 20

// Controller drives one section-editing session: the active section, its
// fetched record list, the open form draft and the delete confirmation gate.
//
// All transitions are serialized by the controller's lock. Adapter calls run
// with the lock released; their completions re-acquire it and re-check the
// epoch captured at departure, so a completion that arrives after the form
// closed (or the section changed) is discarded instead of resurrecting state.
type Controller struct {
	logger   *zap.Logger
	tracer   trace.Tracer
	registry *schema.Registry
	store    store.Store
	gateway  upload.Gateway

	mu           sync.Mutex
	state        State
	section      schema.Schema
	hasSection   bool
	records      []record.Record
	mode         FormMode
	draft        *Draft
	deleteTarget record.Record
	notices      noticeLog

	// sectionEpoch invalidates in-flight list fetches on section switch;
	// formEpoch invalidates in-flight upload completions on form close.
	sectionEpoch uint64
	formEpoch    uint64
}

func NewController(logger *zap.Logger, registry *schema.Registry, st store.Store, gw upload.Gateway) *Controller {
	return &Controller{
		logger:   logger,
		tracer:   otel.Tracer("editor/controller"),
		registry: registry,
		store:    st,
		gateway:  gw,
		state:    StateIdle,
	}
}

// SelectSection makes a section active and fetches its records. An open form
// or pending delete confirmation is implicitly cancelled: drafts never
// survive a section switch. While a submit or delete is in flight the switch
// is rejected so the pending operation stays visibly pending.
func (c *Controller) SelectSection(ctx context.Context, section string) error {
	ctx, span := c.tracer.Start(ctx, "SelectSection")
	defer span.End()
	logger := logutil.WithContext(ctx, c.logger)

	s, err := c.registry.SchemaFor(section)
	if err != nil {
		span.RecordError(err)
		return err
	}

	c.mu.Lock()
	if c.state == StateSubmitting || c.state == StateDeleting {
		c.mu.Unlock()
		return internal.ErrOperationInFlight
	}

	if c.draft != nil {
		logger.Debug("Discarding open form on section switch", zap.String("section", c.section.Section))
	}
	c.closeFormLocked()
	c.section = s
	c.hasSection = true
	c.records = nil
	c.state = StateListing
	c.sectionEpoch++
	epoch := c.sectionEpoch
	c.mu.Unlock()

	records, err := c.store.List(ctx, section)

	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.sectionEpoch {
		// The session moved on to another section while this fetch was
		// outstanding; its result no longer belongs anywhere.
		logger.Debug("Discarding stale record list", zap.String("section", section))
		return nil
	}

	if err != nil {
		span.RecordError(err)
		c.notices.push(NoticeError, fmt.Sprintf("Could not load %s records: %v", s.Title, err))
		logger.Warn("Failed to fetch section records", zap.String("section", section), zap.Error(err))
		return err
	}

	c.records = records
	logger.Info("Section selected", zap.String("section", section), zap.Int("records", len(records)))
	return nil
}

// OpenCreate opens the form with schema defaults.
func (c *Controller) OpenCreate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireListingLocked(); err != nil {
		return err
	}
	if c.section.ReadOnly {
		return fmt.Errorf("%w: %s", internal.ErrSectionReadOnly, c.section.Section)
	}

	c.draft = newDraft(c.section)
	c.mode = ModeCreate
	c.state = StateFormOpen
	return nil
}

// OpenEdit opens the form with a field-by-field copy of the listed record.
func (c *Controller) OpenEdit(recordID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireListingLocked(); err != nil {
		return err
	}
	if c.section.ReadOnly {
		return fmt.Errorf("%w: %s", internal.ErrSectionReadOnly, c.section.Section)
	}

	target, ok := c.findRecordLocked(recordID)
	if !ok {
		return fmt.Errorf("%w: %s", internal.ErrRecordNotFound, recordID)
	}

	c.draft = draftFrom(c.section, target)
	c.mode = ModeEdit
	c.state = StateFormOpen
	return nil
}

// Cancel discards the open form or the pending delete confirmation. It has
// no side effects beyond dropping the draft.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateFormOpen:
		c.closeFormLocked()
		c.state = StateListing
		return nil
	case StateConfirmingDelete:
		c.deleteTarget = record.Record{}
		c.state = StateListing
		return nil
	case StateSubmitting, StateDeleting:
		return internal.ErrOperationInFlight
	default:
		return internal.ErrNoOpenForm
	}
}

// SetField applies one field change to the draft.
func (c *Controller) SetField(name string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireFormLocked(); err != nil {
		return err
	}
	return c.draft.set(name, value)
}

// AppendArrayItem adds a blank entry to a list field.
func (c *Controller) AppendArrayItem(field string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireFormLocked(); err != nil {
		return err
	}
	return c.draft.appendEntry(field)
}

// RemoveArrayItem removes the entry at index, preserving the order of the
// rest. The last entry of a required list field cannot be removed.
func (c *Controller) RemoveArrayItem(field string, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireFormLocked(); err != nil {
		return err
	}
	return c.draft.removeEntry(field, index)
}

// SetArrayField edits one sub-field of one list entry in place.
func (c *Controller) SetArrayField(field string, index int, sub string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireFormLocked(); err != nil {
		return err
	}
	return c.draft.setEntryField(field, index, sub, value)
}

// UploadField transfers a file through the upload gateway and splices the
// returned reference into the draft. A completion that lands after the form
// closed is discarded; on failure the previous reference is left intact.
func (c *Controller) UploadField(ctx context.Context, field string, in upload.Upload) error {
	ctx, span := c.tracer.Start(ctx, "UploadField")
	defer span.End()
	logger := logutil.WithContext(ctx, c.logger)

	c.mu.Lock()
	if err := c.requireFormLocked(); err != nil {
		c.mu.Unlock()
		return err
	}

	f, ok := c.section.Field(field)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", internal.ErrUnknownField, field)
	}
	if f.Kind != schema.KindFileRef {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", internal.ErrNotFileField, field)
	}
	if c.draft.uploading[field] {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", internal.ErrUploadInProgress, field)
	}

	in.Category = f.Category
	c.draft.uploading[field] = true
	epoch := c.formEpoch
	c.mu.Unlock()

	ref, err := c.gateway.Send(ctx, in, uploadOptions(f)...)

	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.formEpoch || c.draft == nil {
		// The form closed while the transfer was outstanding. The asset may
		// exist server-side, but there is no draft to splice it into.
		logger.Debug("Discarding upload completion for a closed form",
			zap.String("field", field),
			zap.String("filename", in.Filename),
		)
		return nil
	}

	c.draft.uploading[field] = false

	if err != nil {
		span.RecordError(err)
		c.notices.push(NoticeError, fmt.Sprintf("Upload for %s failed: %v", f.Label, err))
		logger.Warn("Upload failed, keeping previous reference",
			zap.String("field", field),
			zap.Error(err),
		)
		return err
	}

	c.draft.values[field] = ref.Filename
	logger.Info("Upload completed", zap.String("field", field), zap.String("stored_as", ref.Filename))
	return nil
}

// Submit validates the draft and persists it through the record store. A
// validation failure never reaches the adapter. A store failure keeps the
// form open with the draft untouched. Success merges the authoritative record
// into the list and returns to Listing.
func (c *Controller) Submit(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "Submit")
	defer span.End()
	logger := logutil.WithContext(ctx, c.logger)

	c.mu.Lock()
	if c.state == StateSubmitting || c.state == StateDeleting {
		c.mu.Unlock()
		return internal.ErrOperationInFlight
	}
	if c.state != StateFormOpen {
		c.mu.Unlock()
		return internal.ErrNoOpenForm
	}

	fieldErrs := c.section.Validate(c.draft.values)
	if len(fieldErrs) > 0 {
		c.draft.errors = fieldErrs
		err := internal.ValidationError{Fields: fieldErrs}
		c.notices.push(NoticeError, err.Error())
		c.mu.Unlock()
		span.RecordError(err)
		return err
	}

	payload := c.section.Encode(c.draft.values)
	section := c.section.Section
	mode := c.mode
	recordID := c.draft.recordID
	c.state = StateSubmitting
	c.mu.Unlock()

	var saved record.Record
	var err error
	if mode == ModeEdit {
		saved, err = c.store.Update(ctx, section, recordID, payload)
	} else {
		saved, err = c.store.Create(ctx, section, payload)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		// Back to the form, draft untouched: a failed save loses nothing.
		c.state = StateFormOpen
		c.notices.push(NoticeError, fmt.Sprintf("Saving failed: %v", err))
		logger.Warn("Submit failed", zap.String("section", section), zap.Error(err))
		span.RecordError(err)
		return err
	}

	c.mergeRecordLocked(saved)
	c.closeFormLocked()
	c.state = StateListing
	logger.Info("Record saved",
		zap.String("section", section),
		zap.String("record_id", saved.ID),
		zap.String("mode", string(mode)),
	)
	return nil
}

// RequestDelete opens the confirmation gate for a listed record.
func (c *Controller) RequestDelete(recordID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireListingLocked(); err != nil {
		return err
	}

	target, ok := c.findRecordLocked(recordID)
	if !ok {
		return fmt.Errorf("%w: %s", internal.ErrRecordNotFound, recordID)
	}

	c.deleteTarget = target.Clone()
	c.state = StateConfirmingDelete
	return nil
}

// ConfirmDelete fires the confirmed delete against the record store. Success
// removes the record from the local list; failure returns to Listing with the
// record still present and a surfaced notice.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "ConfirmDelete")
	defer span.End()
	logger := logutil.WithContext(ctx, c.logger)

	c.mu.Lock()
	if c.state == StateSubmitting || c.state == StateDeleting {
		c.mu.Unlock()
		return internal.ErrOperationInFlight
	}
	if c.state != StateConfirmingDelete {
		c.mu.Unlock()
		return internal.ErrNoPendingDelete
	}

	section := c.section.Section
	target := c.deleteTarget
	c.state = StateDeleting
	c.mu.Unlock()

	err := c.store.Delete(ctx, section, target.ID)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.deleteTarget = record.Record{}
	c.state = StateListing

	if err != nil {
		c.notices.push(NoticeError, fmt.Sprintf("Deleting failed: %v", err))
		logger.Warn("Delete failed", zap.String("section", section), zap.String("record_id", target.ID), zap.Error(err))
		span.RecordError(err)
		return err
	}

	c.removeRecordLocked(target.ID)
	logger.Info("Record deleted", zap.String("section", section), zap.String("record_id", target.ID))
	return nil
}

// CancelDelete closes the confirmation gate without side effects.
func (c *Controller) CancelDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConfirmingDelete {
		return internal.ErrNoPendingDelete
	}

	c.deleteTarget = record.Record{}
	c.state = StateListing
	return nil
}

// Snapshot is a detached view of the controller for rendering.
type Snapshot struct {
	State        State
	HasSection   bool
	Section      schema.Schema
	Mode         FormMode
	Records      []record.Record
	Draft        *DraftSnapshot
	DeleteTarget *record.Record
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:      c.state,
		HasSection: c.hasSection,
		Section:    c.section,
		Mode:       c.mode,
		Draft:      c.draft.snapshot(),
	}

	snap.Records = make([]record.Record, len(c.records))
	for i, r := range c.records {
		snap.Records[i] = r.Clone()
	}

	if c.state == StateConfirmingDelete || c.state == StateDeleting {
		target := c.deleteTarget.Clone()
		snap.DeleteTarget = &target
	}

	return snap
}

// DrainNotices hands pending notifications to the caller and clears the feed.
func (c *Controller) DrainNotices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notices.drain()
}

// uploadOptions maps a file field's accept hint onto gateway validation.
func uploadOptions(f schema.FieldSpec) []upload.Option {
	opts := []upload.Option{upload.WithMaxSize(maxUploadSize)}
	switch f.Accept {
	case schema.AcceptImage:
		opts = append(opts, upload.WithImageFormats())
	case schema.AcceptDocument:
		opts = append(opts, upload.WithContentType("application/pdf"))
	}
	return opts
}

func (c *Controller) requireListingLocked() error {
	switch c.state {
	case StateListing:
		return nil
	case StateSubmitting, StateDeleting:
		return internal.ErrOperationInFlight
	case StateIdle:
		return internal.ErrNoActiveSection
	default:
		return internal.ErrFormAlreadyOpen
	}
}

func (c *Controller) requireFormLocked() error {
	switch c.state {
	case StateFormOpen:
		return nil
	case StateSubmitting, StateDeleting:
		return internal.ErrOperationInFlight
	default:
		return internal.ErrNoOpenForm
	}
}

// closeFormLocked drops the draft and advances the form epoch so in-flight
// upload completions for the closed form are discarded.
func (c *Controller) closeFormLocked() {
	c.draft = nil
	c.mode = ""
	c.deleteTarget = record.Record{}
	c.formEpoch++
}

func (c *Controller) findRecordLocked(id string) (record.Record, bool) {
	for _, r := range c.records {
		if r.ID == id {
			return r, true
		}
	}
	return record.Record{}, false
}

// mergeRecordLocked replaces the matching record or appends a new one. The
// adapter's response is authoritative; the local copy is never patched.
func (c *Controller) mergeRecordLocked(saved record.Record) {
	for i, r := range c.records {
		if r.ID == saved.ID {
			c.records[i] = saved
			return
		}
	}
	c.records = append(c.records, saved)
}

func (c *Controller) removeRecordLocked(id string) {
	out := c.records[:0]
	for _, r := range c.records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	c.records = out
}
