package frontend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mikey/email-classifier/internal/adapters/classifier"
	"github.com/mikey/email-classifier/internal/core"
	"github.com/mikey/email-classifier/internal/workflow"
	"go.uber.org/zap"
)

// InfoSource fetches the classification service metadata
type InfoSource interface {
	Info(ctx context.Context) (*classifier.ServiceInfo, error)
}

// CLIFrontend is a terminal presentation layer over the workflow controller
type CLIFrontend struct {
	controller *workflow.Controller
	info       InfoSource
	in         io.Reader
	renderer   *Renderer
	logger     *zap.Logger
	openUpload func(path string) (core.Upload, error)
}

// NewCLIFrontend creates a new terminal frontend
func NewCLIFrontend(controller *workflow.Controller, info InfoSource, in io.Reader, out io.Writer, logger *zap.Logger) *CLIFrontend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CLIFrontend{
		controller: controller,
		info:       info,
		in:         in,
		renderer:   NewRenderer(out),
		logger:     logger,
		openUpload: OpenUpload,
	}
}

// RunOnce submits text and/or the file at filePath and prints the outcome
func (f *CLIFrontend) RunOnce(ctx context.Context, text string, filePath string) error {
	if text != "" {
		f.controller.SetInputText(text)
	}
	if filePath != "" {
		if err := f.selectFile(filePath); err != nil {
			f.renderer.Message("Erro: %s", core.Message(err))
			return err
		}
	}

	err := f.controller.Submit(ctx)
	f.renderer.State(f.controller.Snapshot())
	return err
}

// Run reads commands line by line until "quit", end of input or ctx is done
func (f *CLIFrontend) Run(ctx context.Context) error {
	f.renderer.Message("Email IA Classifier. Digite \"help\" para ver os comandos.")

	scanner := bufio.NewScanner(f.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read command: %w", err)
			}
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := f.dispatch(ctx, line); quit {
			return nil
		}
	}
}

func (f *CLIFrontend) dispatch(ctx context.Context, line string) bool {
	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	f.logger.Debug("Command received", zap.String("command", command))

	switch strings.ToLower(command) {
	case "text":
		f.controller.SetInputText(arg)
		f.renderer.Input(f.controller.Snapshot())
	case "sample":
		if err := f.controller.UseSample(); err != nil {
			f.renderer.Message("Erro: %s", core.Message(err))
			return false
		}
		f.renderer.Message("Exemplo: %s", f.controller.Snapshot().InputText)
	case "file":
		if arg == "" {
			f.renderer.Message("Informe o caminho do arquivo.")
			return false
		}
		if err := f.selectFile(arg); err != nil {
			f.renderer.Message("Erro: %s", core.Message(err))
			return false
		}
		f.renderer.Input(f.controller.Snapshot())
	case "remove":
		f.controller.RemoveFile()
		f.renderer.Input(f.controller.Snapshot())
	case "submit":
		err := f.controller.Submit(ctx)
		if errors.Is(err, core.ErrSubmissionInProgress) {
			f.renderer.Message("%s", core.Message(err))
			return false
		}
		f.renderer.State(f.controller.Snapshot())
	case "history":
		f.renderer.History(f.controller.Snapshot())
	case "select":
		f.selectHistory(arg)
	case "detail":
		if !f.controller.OpenDetail() {
			f.renderer.Message("Nenhuma análise selecionada.")
			return false
		}
		if entry, ok := f.controller.Snapshot().ActiveEntry(); ok {
			f.renderer.Detail(entry)
		}
	case "close":
		f.controller.CloseDetail()
	case "info":
		f.showInfo(ctx)
	case "status":
		s := f.controller.Snapshot()
		f.renderer.Input(s)
		f.renderer.State(s)
	case "help":
		f.renderer.Help()
	case "quit", "exit":
		return true
	default:
		f.renderer.Message("Comando desconhecido: %s", command)
	}
	return false
}

// selectFile hands the file at path to the controller. A file that cannot
// be opened is reported without touching the workflow state.
func (f *CLIFrontend) selectFile(path string) error {
	upload, err := f.openUpload(path)
	if err != nil {
		f.logger.Warn("Failed to open file", zap.String("path", path), zap.Error(err))
		return err
	}
	return f.controller.SelectFile(upload)
}

func (f *CLIFrontend) selectHistory(arg string) {
	s := f.controller.Snapshot()
	id := arg
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(s.History) {
			f.renderer.Message("Análise %d não encontrada.", n)
			return
		}
		id = s.History[n-1].ID
	}

	if err := f.controller.SelectHistory(id); err != nil {
		f.renderer.Message("Análise %s não encontrada.", arg)
		return
	}

	s = f.controller.Snapshot()
	if s.InputText != "" {
		f.renderer.Message("Texto restaurado: %s", s.InputText)
	}
	f.renderer.State(s)
}

func (f *CLIFrontend) showInfo(ctx context.Context) {
	if f.info == nil {
		f.renderer.Message("Informações do serviço indisponíveis.")
		return
	}
	info, err := f.info.Info(ctx)
	if err != nil {
		f.renderer.Message("Erro: %s", core.Message(err))
		return
	}
	f.renderer.Info(*info)
}
