package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/email-classifier/internal/core"
	"github.com/mikey/email-classifier/internal/samples"
	"github.com/mikey/email-classifier/internal/utils"
	"go.uber.org/zap"
)

const (
	// PreviewLength is the maximum number of characters in a history preview
	PreviewLength = 160
	// DefaultMaxTextLength is the typed text limit, in characters
	DefaultMaxTextLength = 5000

	textInputLabel   = "Texto digitado"
	emptyTextPreview = "Sem conteúdo"
)

var (
	// ErrSuperseded is returned by Submit when a newer intent replaced the
	// submission before its response arrived. The response is discarded.
	ErrSuperseded = errors.New("submission superseded")
	// ErrEntryNotFound is returned when a history id is unknown
	ErrEntryNotFound = errors.New("history entry not found")
)

// Option configures a Controller
type Option func(*Controller)

// WithClock sets the time source used for history timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator sets the history id generator
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// WithSamples sets the demo e-mails and the rotator drawing them
func WithSamples(pool []string, rotator *samples.Rotator) Option {
	return func(c *Controller) {
		c.samples = append([]string(nil), pool...)
		if rotator != nil {
			c.rotator = rotator
		}
	}
}

// WithMaxTextLength limits the typed text, in characters
func WithMaxTextLength(n int) Option {
	return func(c *Controller) { c.maxTextLength = n }
}

// WithTextProcessor sets the text helper
func WithTextProcessor(tp *utils.TextProcessor) Option {
	return func(c *Controller) { c.text = tp }
}

// Controller owns the workflow state and applies intents one at a time.
// The presentation layer reads snapshots and dispatches intents; it never
// touches the state directly.
type Controller struct {
	classifier core.Classifier
	history    core.HistoryRepository
	rotator    *samples.Rotator
	samples    []string
	text       *utils.TextProcessor
	logger     *zap.Logger

	maxTextLength int
	now           func() time.Time
	newID         func() string

	mu         sync.Mutex
	inputText  string
	selected   *core.Upload
	submitting bool
	lastError  string
	current    *core.ClassificationResult
	activeID   string
	lastSample *int
	detailOpen bool
	seq        uint64

	subscribers map[int]chan State
	nextSubID   int
}

// NewController creates a controller for one session
func NewController(classifier core.Classifier, history core.HistoryRepository, logger *zap.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		classifier:    classifier,
		history:       history,
		rotator:       samples.NewRotator(),
		samples:       samples.Defaults(),
		logger:        logger,
		maxTextLength: DefaultMaxTextLength,
		now:           time.Now,
		newID:         uuid.NewString,
		subscribers:   make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.text == nil {
		c.text = utils.NewTextProcessor(logger)
	}
	return c
}

// Snapshot returns the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot after every state
// change. Delivery is latest-wins: a slow reader only sees the most recent
// snapshot. The returned func cancels the subscription.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	ch := make(chan State, 1)
	c.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers, id)
			close(ch)
		})
	}
	return ch, cancel
}

// SetInputText replaces the typed text, cut to the configured length.
// Invalid UTF-8 is dropped.
func (c *Controller) SetInputText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inputText = c.text.LimitLength(c.text.SanitizeUTF8(text), c.maxTextLength)
	c.publishLocked()
}

// Submit classifies the current text and file. It blocks until the
// service answers and returns the failure, if any, that was also recorded
// as the last error. A second call while a submission is in flight is
// rejected with core.ErrSubmissionInProgress and changes nothing.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()

	if c.submitting {
		c.mu.Unlock()
		c.logger.Warn("Submission rejected, another one is in flight")
		return core.NewError(core.ErrSubmissionInProgress, core.MsgInProgress, nil)
	}

	if !core.HasSubmittableInput(c.inputText, c.selected) {
		err := core.NewError(core.ErrMissingInput, core.MsgMissingInput, nil)
		c.failLocked(err)
		c.publishLocked()
		c.mu.Unlock()
		return err
	}

	c.seq++
	seq := c.seq
	input := core.ClassificationInput{Text: c.inputText}
	var provenance *core.FileHandle
	if c.selected != nil {
		upload := *c.selected
		input.File = &upload
		handle := upload.Handle
		provenance = &handle
	}
	trimmed := input.TrimmedText()

	c.current = nil
	c.lastError = ""
	c.activeID = ""
	c.detailOpen = false
	c.submitting = true
	c.publishLocked()
	c.mu.Unlock()

	c.logger.Debug("Submission started", zap.Uint64("seq", seq), zap.Bool("with_file", provenance != nil))

	result, err := c.classifier.Classify(ctx, input)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.logger.Debug("Discarding superseded submission", zap.Uint64("seq", seq), zap.Uint64("current", c.seq))
		return ErrSuperseded
	}

	switch {
	case err != nil:
		c.failLocked(err)
	case result == nil:
		err = core.NewError(core.ErrTransportFailure, core.MsgUnknownError, nil)
		c.failLocked(err)
	case result.Failed():
		err = core.NewError(core.ErrServiceError, core.ServiceErrorMessage(*result), errors.New(*result.ServiceError))
		c.failLocked(err)
	default:
		c.succeedLocked(result.Sanitized(), trimmed, provenance)
	}

	c.publishLocked()
	return err
}

// UseSample replaces the text with a random demo e-mail, different from
// the previous pick when possible. It never submits. An in-flight
// submission is superseded.
func (c *Controller) UseSample() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	text, idx, err := c.rotator.Next(c.samples, c.lastSample)
	if err != nil {
		return err
	}

	c.lastSample = &idx
	c.inputText = c.text.LimitLength(text, c.maxTextLength)
	c.selected = nil
	c.supersedeLocked()
	c.current = nil
	c.lastError = ""
	c.activeID = ""
	c.detailOpen = false
	c.publishLocked()

	c.logger.Debug("Sample selected", zap.Int("index", idx))
	return nil
}

// SelectFile validates and selects a file. On a violation any selected
// file is cleared and the validation message becomes the last error; the
// current result is left untouched.
func (c *Controller) SelectFile(upload core.Upload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := core.ValidateFile(upload.Handle); err != nil {
		c.selected = nil
		c.lastError = core.Message(err)
		c.publishLocked()
		c.logger.Warn("File rejected",
			zap.String("file", upload.Handle.Name),
			zap.Int64("size", upload.Handle.SizeBytes),
			zap.Error(err))
		return err
	}

	c.lastError = ""
	c.selected = &upload
	c.publishLocked()

	c.logger.Debug("File selected", zap.String("file", upload.Handle.Name), zap.Int64("size", upload.Handle.SizeBytes))
	return nil
}

// RemoveFile clears the selected file
func (c *Controller) RemoveFile() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selected = nil
	c.publishLocked()
}

// SelectHistory shows a past result. Text entries restore their input;
// file entries clear the text and file since file contents are not kept.
// An in-flight submission is superseded.
func (c *Controller) SelectHistory(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.history.FindByID(id)
	if !ok {
		return ErrEntryNotFound
	}

	result := entry.Result.Clone()
	c.current = &result
	c.activeID = entry.ID
	c.lastError = ""
	c.supersedeLocked()

	if entry.InputKind == core.InputKindText && entry.InputContent != nil {
		c.inputText = *entry.InputContent
	} else {
		c.inputText = ""
	}
	c.selected = nil
	c.publishLocked()

	c.logger.Debug("History entry selected", zap.String("id", entry.ID), zap.String("kind", string(entry.InputKind)))
	return nil
}

// OpenDetail opens the detail view of the active history entry. It
// reports false when no entry is active.
func (c *Controller) OpenDetail() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activeID == "" {
		return false
	}
	if _, ok := c.history.FindByID(c.activeID); !ok {
		return false
	}
	c.detailOpen = true
	c.publishLocked()
	return true
}

// CloseDetail closes the detail view
func (c *Controller) CloseDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detailOpen = false
	c.publishLocked()
}

func (c *Controller) supersedeLocked() {
	if c.submitting {
		c.seq++
		c.logger.Debug("In-flight submission superseded", zap.Uint64("seq", c.seq))
	}
	c.submitting = false
}

func (c *Controller) failLocked(err error) {
	c.lastError = core.Message(err)
	c.current = nil
	c.activeID = ""
	c.detailOpen = false
	c.submitting = false

	c.logger.Warn("Classification failed", zap.String("message", c.lastError), zap.Error(err))
}

func (c *Controller) succeedLocked(result core.ClassificationResult, trimmed string, file *core.FileHandle) {
	entry := c.buildEntry(result, trimmed, file)
	c.history.Append(entry)

	c.current = &result
	c.activeID = entry.ID
	c.lastError = ""
	c.submitting = false

	c.logger.Info("Classification completed",
		zap.String("id", entry.ID),
		zap.String("status", core.StatusLabel(result)),
		zap.String("kind", string(entry.InputKind)))
}

func (c *Controller) buildEntry(result core.ClassificationResult, trimmed string, file *core.FileHandle) core.HistoryEntry {
	entry := core.HistoryEntry{
		ID:        c.newID(),
		Timestamp: c.now().UnixMilli(),
		Result:    result.Clone(),
	}

	if file != nil {
		entry.InputKind = core.InputKindFile
		entry.InputLabel = file.Name
		entry.Preview = c.text.Preview(file.Name, PreviewLength)
		return entry
	}

	content := trimmed
	preview := trimmed
	if preview == "" {
		preview = emptyTextPreview
	}
	entry.InputKind = core.InputKindText
	entry.InputLabel = textInputLabel
	entry.Preview = c.text.Preview(preview, PreviewLength)
	entry.InputContent = &content
	return entry
}

func (c *Controller) snapshotLocked() State {
	s := State{
		InputText:           c.inputText,
		IsSubmitting:        c.submitting,
		LastError:           c.lastError,
		History:             c.history.List(),
		ActiveHistoryID:     c.activeID,
		DetailOpen:          c.detailOpen,
		CharactersRemaining: c.text.Remaining(c.inputText, c.maxTextLength),
	}
	if c.selected != nil {
		handle := c.selected.Handle
		s.SelectedFile = &handle
	}
	if c.current != nil {
		result := c.current.Clone()
		s.CurrentResult = &result
	}
	if c.lastSample != nil {
		idx := *c.lastSample
		s.LastSampleIndex = &idx
	}
	return s
}

func (c *Controller) publishLocked() {
	if len(c.subscribers) == 0 {
		return
	}
	s := c.snapshotLocked()
	for _, ch := range c.subscribers {
		select {
		case ch <- s:
		default:
			// drop the stale snapshot still waiting in the buffer
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}
