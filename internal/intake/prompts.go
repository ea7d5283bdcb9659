package intake

import (
	"strings"
	"time"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/llm"
)

const dateLayout = "2006-01-02"

const systemPrompt = `Você é o "Agente SAAD", especialista em gestão de projetos de software.
Seu trabalho é manter o quadro do projeto a partir da entrada do usuário e do histórico do chat.

REGRAS:
1. Cronograma primeiro. Não crie tarefas enquanto não houver cronograma (duração, prazo final ou datas de início e fim) no histórico ou na entrada atual.
   Se o usuário enviar Regras de Negócio (RNs) sem cronograma, pergunte pelo cronograma e devolva "newTasks" vazio.
   Se a entrada atual trouxer apenas o cronograma, procure no histórico as RNs enviadas antes e gere as tarefas agora.
2. Tarefas. Cada RN vira uma tarefa com o texto COMPLETO, sem resumir, parafrasear ou encurtar. Nunca use reticências.
   - "code": o identificador exatamente como escrito (ex: "RN - 001.1").
   - "title": o nome da regra exatamente como escrito (ex: "Tipo de Cadastro").
   - "description": o corpo da regra na íntegra.
   - "category": a RN pai com título (ex: "RN - 001 Definição do Tipo de Produto"); sem pai, use o próprio código.
   Um cabeçalho como "RN - 001 Título" seguido de "RN - 001.1 ..." e "RN - 001.2 ..." gera uma tarefa por subitem.
3. Squads. Toda tarefa recebe exatamente um squad entre "UX/UI", "Backend", "Frontend" e "Geral".
4. Cronograma. Preencha "startDate" e "endDate" no formato AAAA-MM-DD, "totalWeeks" e "currentWeek".
   - Só a duração informada: início = hoje.
   - Só o prazo final informado: conte para trás a partir dele.
   - "currentWeek" = semanas completas entre o início e hoje + 1.
5. Resposta. Escreva em "reply" uma resposta curta em português explicando o que foi feito.
   Quando houver tarefas, gere 2 insights estratégicos em "insights".

Responda somente com JSON no esquema pedido.`

// BuildPrompt renders the user-side prompt: today's date, the transcript as
// "ROLE: content" lines, and the current input.
func BuildPrompt(input string, history []domain.ChatMessage, today time.Time) string {
	var b strings.Builder

	b.WriteString("Data Atual: ")
	b.WriteString(today.Format(dateLayout))
	b.WriteString("\n\nHistórico do Chat:\n")
	for _, m := range history {
		b.WriteString(strings.ToUpper(string(m.Role)))
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}

	b.WriteString("\nEntrada Atual do Usuário:\n")
	b.WriteString(input)

	return b.String()
}

// BuildRequest assembles the full generation request for one intake turn.
func BuildRequest(input string, history []domain.ChatMessage, today time.Time) llm.GenerateRequest {
	return llm.GenerateRequest{
		Task:         llm.TaskIntake,
		SystemPrompt: systemPrompt,
		UserPrompt:   BuildPrompt(input, history, today),
		Format:       ResponseSchema,
	}
}
