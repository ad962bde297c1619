package frontend

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mikey/email-classifier/internal/adapters/classifier"
	"github.com/mikey/email-classifier/internal/core"
	"github.com/mikey/email-classifier/internal/workflow"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const timestampLayout = "02/01/2006 15:04"

// Renderer prints workflow snapshots as text
type Renderer struct {
	out     io.Writer
	printer *message.Printer
}

// NewRenderer creates a renderer writing Brazilian Portuguese output to out
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:     out,
		printer: message.NewPrinter(language.BrazilianPortuguese),
	}
}

// ConfidencePercent rounds a confidence in [0,1] to a whole percentage.
// It reports false when the confidence is absent or not a number.
func ConfidencePercent(confidence *float64) (int, bool) {
	if confidence == nil || math.IsNaN(*confidence) || math.IsInf(*confidence, 0) {
		return 0, false
	}
	return int(math.Round(*confidence * 100)), true
}

// State prints the status line, the last error and the current result
func (r *Renderer) State(s workflow.State) {
	if s.IsSubmitting {
		fmt.Fprintln(r.out, "Analisando...")
		return
	}
	if s.LastError != "" {
		fmt.Fprintf(r.out, "Erro: %s\n", s.LastError)
	}
	if result := s.DisplayResult(); result != nil {
		r.Result(*result)
	}
}

// Input prints the typed text length and the selected file
func (r *Renderer) Input(s workflow.State) {
	r.printer.Fprintf(r.out, "%d caracteres restantes\n", s.CharactersRemaining)
	if s.SelectedFile != nil {
		r.printer.Fprintf(r.out, "Arquivo: %s (%d bytes)\n", s.SelectedFile.Name, s.SelectedFile.SizeBytes)
	} else {
		fmt.Fprintln(r.out, "Nenhum arquivo selecionado")
	}
}

// Result prints a classification result block
func (r *Renderer) Result(result core.ClassificationResult) {
	fmt.Fprintf(r.out, "\n=== Resultado ===\n")
	fmt.Fprintf(r.out, "Classificação: %s\n", core.StatusLabel(result))
	if pct, ok := ConfidencePercent(result.Confidence); ok {
		r.printer.Fprintf(r.out, "Confiança: %d%%\n", pct)
	}
	if result.Reason != nil && *result.Reason != "" {
		fmt.Fprintf(r.out, "Motivo: %s\n", *result.Reason)
	}
	if len(result.Keywords) > 0 {
		fmt.Fprintf(r.out, "Palavras-chave: %s\n", strings.Join(result.Keywords, ", "))
	}
	if result.Reply != nil {
		fmt.Fprintf(r.out, "Resposta sugerida:\n%s\n", *result.Reply)
	}
}

// History prints the recent results list, marking the active entry
func (r *Renderer) History(s workflow.State) {
	fmt.Fprintf(r.out, "\n=== Histórico de análises ===\n")
	if len(s.History) == 0 {
		fmt.Fprintln(r.out, "Os emails analisados aparecerão aqui para você consultar os resultados recentes.")
		return
	}
	r.printer.Fprintf(r.out, "%d análise(s) recente(s)\n", len(s.History))
	for i, e := range s.History {
		marker := " "
		if e.ID == s.ActiveHistoryID {
			marker = "*"
		}
		line := fmt.Sprintf("%s %2d. [%s] %s %s", marker, i+1, core.StatusLabel(e.Result), e.Time().Format(timestampLayout), e.InputLabel)
		if pct, ok := ConfidencePercent(e.Result.Confidence); ok {
			line += r.printer.Sprintf(" (%d%%)", pct)
		}
		fmt.Fprintln(r.out, line)
		fmt.Fprintf(r.out, "      %s\n", e.Preview)
	}
}

// Detail prints the full record of a history entry
func (r *Renderer) Detail(e core.HistoryEntry) {
	fmt.Fprintf(r.out, "\n=== Detalhes da análise ===\n")
	fmt.Fprintf(r.out, "Id: %s\n", e.ID)
	fmt.Fprintf(r.out, "Data: %s\n", e.Time().Format(timestampLayout))
	fmt.Fprintf(r.out, "Origem: %s\n", e.InputLabel)
	if e.InputContent != nil {
		fmt.Fprintf(r.out, "Conteúdo:\n%s\n", *e.InputContent)
	} else {
		fmt.Fprintln(r.out, "Conteúdo do arquivo não é armazenado.")
	}
	r.Result(e.Result)
}

// Info prints the service metadata
func (r *Renderer) Info(info classifier.ServiceInfo) {
	fmt.Fprintf(r.out, "\n=== Serviço ===\n")
	fmt.Fprintf(r.out, "%s %s\n", info.Service, info.Version)
	if info.Description != "" {
		fmt.Fprintln(r.out, info.Description)
	}
	if len(info.AcceptedFileTypes) > 0 {
		fmt.Fprintf(r.out, "Formatos aceitos: %s\n", strings.Join(info.AcceptedFileTypes, ", "))
	}
	if info.MaxFileSizeForUpload > 0 {
		r.printer.Fprintf(r.out, "Tamanho máximo: %d bytes\n", info.MaxFileSizeForUpload)
	}
}

// Help prints the interactive commands
func (r *Renderer) Help() {
	fmt.Fprintf(r.out, helpText, "."+strings.Join(core.AllowedExtensions(), " ou ."))
}

const helpText = `Comandos:
  text <conteúdo>   define o texto do email
  sample            usa um exemplo aleatório
  file <caminho>    seleciona um arquivo %s
  remove            remove o arquivo selecionado
  submit            classifica o texto ou arquivo
  history           lista as análises recentes
  select <n|id>     mostra uma análise do histórico
  detail            abre os detalhes da análise ativa
  close             fecha os detalhes
  info              mostra os dados do serviço
  status            mostra o estado atual
  help              mostra esta ajuda
  quit              encerra
`

// Message prints a plain line
func (r *Renderer) Message(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}
