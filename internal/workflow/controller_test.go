package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mikey/email-classifier/internal/adapters/classifier"
	"github.com/mikey/email-classifier/internal/adapters/history"
	"github.com/mikey/email-classifier/internal/core"
	"github.com/mikey/email-classifier/internal/samples"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type classifyCall struct {
	input core.ClassificationInput
}

// stubClassifier answers from a queue of responses. When gate is set each
// call blocks until a value is sent on it.
type stubClassifier struct {
	mu      sync.Mutex
	calls   []classifyCall
	results []*core.ClassificationResult
	errs    []error
	gate    chan struct{}
	started chan struct{}
}

func (s *stubClassifier) Classify(ctx context.Context, input core.ClassificationInput) (*core.ClassificationResult, error) {
	s.mu.Lock()
	idx := len(s.calls)
	s.calls = append(s.calls, classifyCall{input: input})
	gate, started := s.gate, s.started
	s.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var result *core.ClassificationResult
	var err error
	if idx < len(s.results) {
		result = s.results[idx]
	}
	if idx < len(s.errs) {
		err = s.errs[idx]
	}
	return result, err
}

func (s *stubClassifier) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newController(t *testing.T, c core.Classifier, opts ...Option) *Controller {
	t.Helper()
	fixed := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	base := []Option{
		WithClock(func() time.Time { return fixed }),
		WithIDGenerator(sequentialIDs()),
	}
	return NewController(c, history.NewMemoryHistory(nil, history.DefaultCapacity), nil, append(base, opts...)...)
}

func fileUpload(name string, size int64) core.Upload {
	return core.Upload{
		Handle: core.NewFileHandle(name, size),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("conteúdo")), nil
		},
	}
}

func TestController_SubmitTextEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"productive":true,"confidence":0.92,"reply":"Confirmado."}`))
	}))
	defer server.Close()

	c := newController(t, classifier.NewClient(server.URL, 0, nil))
	c.SetInputText("Confirma a reunião às 9h?")

	require.NoError(t, c.Submit(context.Background()))

	s := c.Snapshot()
	assert.False(t, s.IsSubmitting)
	assert.Empty(t, s.LastError)
	assert.Equal(t, PhaseSucceeded, s.Phase())
	require.NotNil(t, s.CurrentResult)
	assert.True(t, *s.CurrentResult.Productive)
	assert.Equal(t, "Confirmado.", *s.CurrentResult.Reply)

	require.Len(t, s.History, 1)
	e := s.History[0]
	assert.Equal(t, "id-1", e.ID)
	assert.Equal(t, s.ActiveHistoryID, e.ID)
	assert.Equal(t, core.InputKindText, e.InputKind)
	assert.Equal(t, "Texto digitado", e.InputLabel)
	assert.Equal(t, "Confirma a reunião às 9h?", e.Preview)
	assert.Equal(t, "Confirma a reunião às 9h?", *e.InputContent)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC).UnixMilli(), e.Timestamp)
}

func TestController_ServiceErrorOnSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"quota_exceeded","reason":"Limite diário atingido"}`))
	}))
	defer server.Close()

	c := newController(t, classifier.NewClient(server.URL, 0, nil))
	c.SetInputText("Olá")

	err := c.Submit(context.Background())
	assert.ErrorIs(t, err, core.ErrServiceError)

	s := c.Snapshot()
	assert.Equal(t, "Limite diário atingido", s.LastError)
	assert.Nil(t, s.CurrentResult)
	assert.Empty(t, s.History)
	assert.Empty(t, s.ActiveHistoryID)
	assert.Equal(t, PhaseFailed, s.Phase())
}

func TestController_MissingInput(t *testing.T) {
	stub := &stubClassifier{}
	c := newController(t, stub)
	c.SetInputText("   \n ")

	err := c.Submit(context.Background())
	assert.ErrorIs(t, err, core.ErrMissingInput)
	assert.Equal(t, core.MsgMissingInput, c.Snapshot().LastError)
	assert.Zero(t, stub.callCount())
}

func TestController_TransportFailure(t *testing.T) {
	stub := &stubClassifier{errs: []error{core.NewError(core.ErrTransportFailure, "Request failed with status 500", nil)}}
	c := newController(t, stub)
	c.SetInputText("x")

	err := c.Submit(context.Background())
	assert.ErrorIs(t, err, core.ErrTransportFailure)

	s := c.Snapshot()
	assert.Equal(t, "Request failed with status 500", s.LastError)
	assert.Empty(t, s.History)
	assert.False(t, s.IsSubmitting)
}

func TestController_NilResult(t *testing.T) {
	c := newController(t, &stubClassifier{})
	c.SetInputText("x")

	assert.Error(t, c.Submit(context.Background()))
	assert.Equal(t, core.MsgUnknownError, c.Snapshot().LastError)
}

func TestController_SubmitFile(t *testing.T) {
	stub := &stubClassifier{results: []*core.ClassificationResult{{Productive: boolPtr(false)}}}
	c := newController(t, stub)
	c.SetInputText("  ")
	require.NoError(t, c.SelectFile(fileUpload("relatorio.pdf", 2048)))

	require.NoError(t, c.Submit(context.Background()))

	require.Equal(t, 1, stub.callCount())
	require.NotNil(t, stub.calls[0].input.File)
	assert.Equal(t, "relatorio.pdf", stub.calls[0].input.File.Handle.Name)

	s := c.Snapshot()
	require.Len(t, s.History, 1)
	e := s.History[0]
	assert.Equal(t, core.InputKindFile, e.InputKind)
	assert.Equal(t, "relatorio.pdf", e.InputLabel)
	assert.Equal(t, "relatorio.pdf", e.Preview)
	assert.Nil(t, e.InputContent)
}

func TestController_LongTextPreview(t *testing.T) {
	c := newController(t, &stubClassifier{results: []*core.ClassificationResult{{}}})
	c.SetInputText(strings.Repeat("a", 300))

	require.NoError(t, c.Submit(context.Background()))

	e := c.Snapshot().History[0]
	assert.Equal(t, strings.Repeat("a", PreviewLength)+"…", e.Preview)
	assert.Len(t, *e.InputContent, 300)
}

func TestController_SetInputTextLimit(t *testing.T) {
	c := newController(t, &stubClassifier{}, WithMaxTextLength(10))

	c.SetInputText(strings.Repeat("é", 15))

	s := c.Snapshot()
	assert.Equal(t, strings.Repeat("é", 10), s.InputText)
	assert.Equal(t, 0, s.CharactersRemaining)

	c.SetInputText("abc")
	assert.Equal(t, 7, c.Snapshot().CharactersRemaining)

	c.SetInputText("a\xffb")
	assert.Equal(t, "ab", c.Snapshot().InputText)
}

func TestController_SelectFile(t *testing.T) {
	t.Run("violation clears the file and keeps the result", func(t *testing.T) {
		c := newController(t, &stubClassifier{results: []*core.ClassificationResult{{Productive: boolPtr(true)}}})
		c.SetInputText("texto")
		require.NoError(t, c.Submit(context.Background()))
		require.NoError(t, c.SelectFile(fileUpload("ok.txt", 10)))

		err := c.SelectFile(fileUpload("foto.png", 10))
		assert.ErrorIs(t, err, core.ErrUnsupportedFormat)

		s := c.Snapshot()
		assert.Nil(t, s.SelectedFile)
		assert.Equal(t, core.MsgUnsupportedFormat, s.LastError)
		assert.NotNil(t, s.CurrentResult)
	})

	t.Run("too large", func(t *testing.T) {
		c := newController(t, &stubClassifier{})
		err := c.SelectFile(fileUpload("big.pdf", core.MaxFileSize+1))
		assert.ErrorIs(t, err, core.ErrFileTooLarge)
		assert.Equal(t, core.MsgFileTooLarge, c.Snapshot().LastError)
	})

	t.Run("valid file clears the last error", func(t *testing.T) {
		c := newController(t, &stubClassifier{})
		_ = c.SelectFile(fileUpload("bad.doc", 1))
		require.NoError(t, c.SelectFile(fileUpload("Email.TXT", 1)))

		s := c.Snapshot()
		assert.Empty(t, s.LastError)
		require.NotNil(t, s.SelectedFile)
		assert.Equal(t, "Email.TXT", s.SelectedFile.Name)

		c.RemoveFile()
		assert.Nil(t, c.Snapshot().SelectedFile)
	})
}

func TestController_ConcurrentSubmitRejected(t *testing.T) {
	stub := &stubClassifier{
		results: []*core.ClassificationResult{{Productive: boolPtr(true)}},
		gate:    make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	c := newController(t, stub)
	c.SetInputText("texto")

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()
	<-stub.started

	assert.True(t, c.Snapshot().IsSubmitting)
	assert.Equal(t, PhaseSubmitting, c.Snapshot().Phase())

	err := c.Submit(context.Background())
	assert.ErrorIs(t, err, core.ErrSubmissionInProgress)
	assert.Equal(t, 1, stub.callCount())

	close(stub.gate)
	require.NoError(t, <-done)
	assert.Len(t, c.Snapshot().History, 1)
}

func TestController_SupersededCompletionIsDiscarded(t *testing.T) {
	stub := &stubClassifier{
		results: []*core.ClassificationResult{
			{Productive: boolPtr(true)},
			{Productive: boolPtr(false), Reason: strPtr("late")},
		},
		started: make(chan struct{}, 2),
	}
	c := newController(t, stub)

	c.SetInputText("primeiro")
	require.NoError(t, c.Submit(context.Background()))
	first := c.Snapshot().History[0].ID

	stub.mu.Lock()
	stub.gate = make(chan struct{})
	stub.mu.Unlock()
	<-stub.started

	c.SetInputText("segundo")
	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()
	<-stub.started

	require.NoError(t, c.SelectHistory(first))
	assert.False(t, c.Snapshot().IsSubmitting)

	close(stub.gate)
	assert.ErrorIs(t, <-done, ErrSuperseded)

	s := c.Snapshot()
	assert.Len(t, s.History, 1)
	assert.Equal(t, first, s.ActiveHistoryID)
	assert.Equal(t, "primeiro", s.InputText)
	assert.True(t, *s.CurrentResult.Productive)
}

func TestController_SelectHistory(t *testing.T) {
	stub := &stubClassifier{results: []*core.ClassificationResult{
		{Productive: boolPtr(true), Keywords: []string{"reunião"}},
		{Productive: boolPtr(false)},
	}}
	c := newController(t, stub)

	c.SetInputText("  texto original  ")
	require.NoError(t, c.Submit(context.Background()))
	c.SetInputText("")
	require.NoError(t, c.SelectFile(fileUpload("anexo.pdf", 100)))
	require.NoError(t, c.Submit(context.Background()))

	s := c.Snapshot()
	require.Len(t, s.History, 2)
	fileEntry, textEntry := s.History[0], s.History[1]

	t.Run("text entry restores its content", func(t *testing.T) {
		require.NoError(t, c.SelectHistory(textEntry.ID))
		s := c.Snapshot()
		assert.Equal(t, "texto original", s.InputText)
		assert.Nil(t, s.SelectedFile)
		assert.Equal(t, textEntry.ID, s.ActiveHistoryID)
		assert.Equal(t, []string{"reunião"}, s.CurrentResult.Keywords)
	})

	t.Run("file entry clears text and file", func(t *testing.T) {
		c.SetInputText("rascunho")
		require.NoError(t, c.SelectFile(fileUpload("outro.txt", 1)))

		require.NoError(t, c.SelectHistory(fileEntry.ID))
		s := c.Snapshot()
		assert.Empty(t, s.InputText)
		assert.Nil(t, s.SelectedFile)
		assert.False(t, *s.CurrentResult.Productive)
	})

	t.Run("unknown id changes nothing", func(t *testing.T) {
		before := c.Snapshot()
		assert.ErrorIs(t, c.SelectHistory("missing"), ErrEntryNotFound)
		assert.Equal(t, before, c.Snapshot())
	})
}

func TestController_Detail(t *testing.T) {
	c := newController(t, &stubClassifier{results: []*core.ClassificationResult{{}}})
	assert.False(t, c.OpenDetail())

	c.SetInputText("x")
	require.NoError(t, c.Submit(context.Background()))

	assert.True(t, c.OpenDetail())
	s := c.Snapshot()
	assert.True(t, s.DetailOpen)
	entry, ok := s.ActiveEntry()
	require.True(t, ok)
	assert.Equal(t, s.ActiveHistoryID, entry.ID)

	c.CloseDetail()
	assert.False(t, c.Snapshot().DetailOpen)

	require.True(t, c.OpenDetail())
	c.SetInputText("")
	_ = c.Submit(context.Background())
	assert.False(t, c.Snapshot().DetailOpen)
}

func TestController_UseSample(t *testing.T) {
	pool := []string{"um", "dois", "três"}
	c := newController(t, &stubClassifier{}, WithSamples(pool, samples.NewRotatorWithSource(rand.NewSource(3))))

	require.NoError(t, c.SelectFile(fileUpload("a.txt", 1)))

	var last *int
	for i := 0; i < 20; i++ {
		require.NoError(t, c.UseSample())
		s := c.Snapshot()
		require.NotNil(t, s.LastSampleIndex)
		assert.Equal(t, pool[*s.LastSampleIndex], s.InputText)
		assert.Nil(t, s.SelectedFile)
		if last != nil {
			assert.NotEqual(t, *last, *s.LastSampleIndex)
		}
		idx := *s.LastSampleIndex
		last = &idx
	}

	empty := newController(t, &stubClassifier{}, WithSamples(nil, nil))
	assert.ErrorIs(t, empty.UseSample(), samples.ErrNoSamples)
}

func TestController_Subscribe(t *testing.T) {
	c := newController(t, &stubClassifier{})

	updates, cancel := c.Subscribe()

	c.SetInputText("a")
	c.SetInputText("ab")

	s := <-updates
	assert.Equal(t, "ab", s.InputText)

	select {
	case extra := <-updates:
		t.Fatalf("unexpected snapshot %q", extra.InputText)
	default:
	}

	cancel()
	cancel()
	_, open := <-updates
	assert.False(t, open)

	c.SetInputText("abc")
}

func TestController_SnapshotIsACopy(t *testing.T) {
	c := newController(t, &stubClassifier{results: []*core.ClassificationResult{{Keywords: []string{"a"}}}})
	c.SetInputText("x")
	require.NoError(t, c.Submit(context.Background()))

	s := c.Snapshot()
	s.CurrentResult.Keywords[0] = "changed"
	s.History[0].Result.Keywords[0] = "changed"

	fresh := c.Snapshot()
	assert.Equal(t, []string{"a"}, fresh.CurrentResult.Keywords)
	assert.Equal(t, []string{"a"}, fresh.History[0].Result.Keywords)
}

func TestController_ClassifierErrorKinds(t *testing.T) {
	sentinel := errors.New("boom")
	c := newController(t, &stubClassifier{errs: []error{sentinel}})
	c.SetInputText("x")

	assert.ErrorIs(t, c.Submit(context.Background()), sentinel)
	assert.Equal(t, "boom", c.Snapshot().LastError)
}
