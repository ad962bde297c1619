package samples

var defaultEmails = []string{
	"Olá equipe, preciso que confirmem a disponibilidade para a reunião de alinhamento amanhã às 9h. Incluam na resposta os pontos que gostariam de tratar.",
	"Bom dia, segue anexo o relatório de performance do mês. Preciso que revisem até quinta-feira e apontem melhorias prioritárias.",
	"Oi time financeiro, podem validar se a nota fiscal 2389 já foi conciliada? O fornecedor está cobrando um posicionamento ainda hoje.",
	"Olá suporte, cliente relatou instabilidade no painel desde às 14h. Podem investigar e me enviar um diagnóstico inicial?",
	"Boa tarde, estou preparando o material do workshop e preciso de três estudos de caso recentes sobre automação de e-mails.",
	"Pessoal, conseguimos antecipar a entrega da campanha? O marketing precisa aprovar os textos finais até sexta-feira.",
}

// Defaults returns a copy of the built-in demo e-mails
func Defaults() []string {
	return append([]string(nil), defaultEmails...)
}
